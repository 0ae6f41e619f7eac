package migrations

import "github.com/go-rel/rel"

func MigrateCreateServiceProviders(schema *rel.Schema) {
	schema.CreateTable("service_providers", func(t *rel.Table) {
		t.String("id", rel.Limit(254))
		t.String("display_name", rel.Limit(254))
		t.String("metadata_url", rel.Limit(254))
		t.Text("description")
		t.Bool("agreement_screen")
		t.Bool("agreement_consent_form")
		t.Text("agreement_message")
		t.String("signing_algorithm", rel.Limit(256))
		t.String("digest_algorithm", rel.Limit(256))
		t.Bool("disable_encrypted_assertions")
		t.String("attribute_processor", rel.Limit(256))
		t.Text("attribute_mapping")
		t.Bool("force_attribute_release")
		t.Bool("is_valid")
		t.Bool("is_active")
		t.DateTime("last_seen")
		t.DateTime("created_at")
		t.DateTime("updated_at")
		t.PrimaryKey("id")
	})
}

func RollbackCreateServiceProviders(schema *rel.Schema) {
	schema.DropTable("service_providers")
}
