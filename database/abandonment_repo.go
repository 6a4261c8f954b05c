package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/project-tracker-backend/models"
	"gorm.io/gorm"
)

type AbandonmentRepo struct {
	db *gorm.DB
}

func NewAbandonmentRepo(db *gorm.DB) *AbandonmentRepo {
	return &AbandonmentRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *AbandonmentRepo) GetDB() *gorm.DB {
	return r.db
}

// FindByProject returns the project's abandonment record, or (nil, nil) when
// none exists.
func (r *AbandonmentRepo) FindByProject(projectID uuid.UUID) (*models.ProjectAbandonment, error) {
	var record models.ProjectAbandonment
	err := r.db.Where("project_id = ?", projectID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert writes the project's single abandonment record, overwriting the
// reason data when one already exists.
func (r *AbandonmentRepo) Upsert(record *models.ProjectAbandonment) error {
	existing, err := r.FindByProject(record.ProjectID)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(record).Error
	}
	return r.db.Model(&models.ProjectAbandonment{}).
		Where("project_id = ?", record.ProjectID).
		Updates(map[string]any{
			"main_reason":       record.MainReason,
			"secondary_reasons": record.SecondaryReasons,
			"retrospective":     record.Retrospective,
			"lessons_learned":   record.LessonsLearned,
		}).Error
}

// DeleteByProject removes the project's abandonment record if present.
func (r *AbandonmentRepo) DeleteByProject(projectID uuid.UUID) error {
	return r.db.Delete(&models.ProjectAbandonment{}, "project_id = ?", projectID).Error
}
