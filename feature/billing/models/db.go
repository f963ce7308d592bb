package models

import "gorm.io/gorm"

// RequiredColumns lists, per table, the columns the health check expects to
// find after migration.
var RequiredColumns = map[string][]string{
	"patients": {"id", "created", "updated", "deleted", "external_id", "first_name", "last_name", "middle_name", "date_of_birth"},
	"payments": {"id", "created", "updated", "deleted", "external_id", "amount", "patient_id"},
}

// Migrate creates or updates the patients and payments tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Patient{}, &Payment{})
}
