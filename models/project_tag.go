package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectTag is a free-text label attached to a project. Labels are unique
// within a project's tag set; there is no global tag registry.
type ProjectTag struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID uuid.UUID `json:"projectId" db:"project_id" gorm:"type:uuid;not null;index:idx_project_tags_project_id;uniqueIndex:idx_project_tags_unique"`
	Label     string    `json:"label" db:"label" gorm:"type:varchar(50);not null;uniqueIndex:idx_project_tags_unique"`
}

func (t *ProjectTag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
