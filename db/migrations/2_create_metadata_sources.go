package migrations

import "github.com/go-rel/rel"

func MigrateCreateMetadataSources(schema *rel.Schema) {
	schema.CreateTable("metadata_sources", func(t *rel.Table) {
		t.BigID("id")
		t.String("name", rel.Limit(256))
		t.String("kind", rel.Limit(12))
		t.String("url", rel.Limit(255))
		t.String("file", rel.Limit(255))
		t.Text("kwargs")
		t.Bool("is_valid")
		t.Bool("is_active")
		t.DateTime("created_at")
		t.DateTime("updated_at")
	})
}

func RollbackCreateMetadataSources(schema *rel.Schema) {
	schema.DropTable("metadata_sources")
}
