package database

import (
	"github.com/rpupo63/project-tracker-backend/models"
	"gorm.io/gorm"
)

type RevivalRepo struct {
	db *gorm.DB
}

func NewRevivalRepo(db *gorm.DB) *RevivalRepo {
	return &RevivalRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *RevivalRepo) GetDB() *gorm.DB {
	return r.db
}

// Add appends a revival record. Revival history is append-only; nothing in
// the service ever deletes entries short of deleting the project.
func (r *RevivalRepo) Add(record *models.ProjectRevival) error {
	return r.db.Create(record).Error
}
