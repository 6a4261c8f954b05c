package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectRevival is an append-only history entry recording the moment a
// completed or abandoned project was set back to ACTIVE. Later transitions
// never delete revivals.
type ProjectRevival struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID uuid.UUID `json:"projectId" db:"project_id" gorm:"type:uuid;not null;index:idx_project_revivals_project_id"`
	RevivedAt time.Time `json:"revivedAt" db:"revived_at" gorm:"not null"`
	Note      *string   `json:"note" db:"note" gorm:"type:text"`
}

func (r *ProjectRevival) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
