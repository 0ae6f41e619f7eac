package migrations

import "github.com/go-rel/rel"

func MigrateCreateAgreementRecords(schema *rel.Schema) {
	schema.CreateTable("agreement_records", func(t *rel.Table) {
		t.BigID("id")
		t.String("user", rel.Limit(254))
		t.Text("sp_entity_id")
		t.Text("attrs")
		t.DateTime("created_at")
	})
}

func RollbackCreateAgreementRecords(schema *rel.Schema) {
	schema.DropTable("agreement_records")
}
