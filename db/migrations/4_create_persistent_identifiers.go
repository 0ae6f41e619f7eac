package migrations

import "github.com/go-rel/rel"

func MigrateCreatePersistentIdentifiers(schema *rel.Schema) {
	schema.CreateTable("persistent_identifiers", func(t *rel.Table) {
		t.BigID("id")
		t.String("user", rel.Limit(254))
		t.String("sp_entity_id", rel.Limit(254))
		t.String("persistent_id", rel.Limit(64))
		t.DateTime("created_at")
	})

	schema.CreateUniqueIndex("persistent_identifiers", "unique_ids_per_sp", []string{"sp_entity_id", "persistent_id"})
	schema.CreateUniqueIndex("persistent_identifiers", "unique_users_per_sp", []string{"sp_entity_id", "user"})
}

func RollbackCreatePersistentIdentifiers(schema *rel.Schema) {
	schema.DropIndex("persistent_identifiers", "unique_users_per_sp")
	schema.DropIndex("persistent_identifiers", "unique_ids_per_sp")
	schema.DropTable("persistent_identifiers")
}
