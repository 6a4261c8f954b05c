package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/project-tracker-backend/models"
	"gorm.io/gorm"
)

type ProjectTagRepo struct {
	db *gorm.DB
}

func NewProjectTagRepo(db *gorm.DB) *ProjectTagRepo {
	return &ProjectTagRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectTagRepo) GetDB() *gorm.DB {
	return r.db
}

// AddMany inserts one tag row per label for the project.
func (r *ProjectTagRepo) AddMany(projectID uuid.UUID, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	tags := make([]models.ProjectTag, 0, len(labels))
	for _, label := range labels {
		tags = append(tags, models.ProjectTag{ProjectID: projectID, Label: label})
	}
	return r.db.Create(&tags).Error
}

// ReplaceForProject swaps the project's entire tag set for the given labels.
// A delete-then-insert, not a merge: an empty label list clears all tags.
func (r *ProjectTagRepo) ReplaceForProject(projectID uuid.UUID, labels []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProjectTag{}, "project_id = ?", projectID).Error; err != nil {
			return err
		}
		if len(labels) == 0 {
			return nil
		}
		tags := make([]models.ProjectTag, 0, len(labels))
		for _, label := range labels {
			tags = append(tags, models.ProjectTag{ProjectID: projectID, Label: label})
		}
		return tx.Create(&tags).Error
	})
}
