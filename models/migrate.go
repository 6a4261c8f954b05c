package models

import "gorm.io/gorm"

// Migrate creates or updates the schema for every model in dependency order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Project{},
		&ProjectTag{},
		&ProjectAbandonment{},
		&ProjectRevival{},
	)
}
