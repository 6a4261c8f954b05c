package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/project-tracker-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAllByUser returns every project owned by the user with its tags,
// abandonment record and revival history, most recently updated first.
func (r *ProjectRepo) FindAllByUser(userID uuid.UUID) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.
		Preload("Tags").
		Preload("Abandonment").
		Preload("Revivals").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&projects).Error
	return projects, err
}

// FindByIDAndUser returns the fully-hydrated project, or (nil, nil) when it
// does not exist or belongs to a different user.
func (r *ProjectRepo) FindByIDAndUser(id, userID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.
		Preload("Tags").
		Preload("Abandonment").
		Preload("Revivals").
		Where("id = ? AND user_id = ?", id, userID).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Create(project).Error
}

// UpdateFields applies a partial column update to a project.
func (r *ProjectRepo) UpdateFields(id uuid.UUID, fields map[string]any) error {
	return r.db.Model(&models.Project{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes a project; tags, abandonment and revivals go with it via
// the cascading foreign keys.
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Project{}, "id = ?", id).Error
}

// DeleteAllByUser removes every project owned by the user.
func (r *ProjectRepo) DeleteAllByUser(userID uuid.UUID) error {
	return r.db.Delete(&models.Project{}, "user_id = ?", userID).Error
}

// CountByStatus returns per-status project counts for the user.
func (r *ProjectRepo) CountByStatus(userID uuid.UUID) (map[models.ProjectStatus]int64, error) {
	var rows []struct {
		Status models.ProjectStatus
		Count  int64
	}
	err := r.db.Model(&models.Project{}).
		Select("status, count(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ProjectStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
