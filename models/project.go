package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	StatusActive    ProjectStatus = "ACTIVE"
	StatusCompleted ProjectStatus = "COMPLETED"
	StatusAbandoned ProjectStatus = "ABANDONED"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s ProjectStatus) bool {
	switch s {
	case StatusActive, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

// Project is a unit of tracked work owned by exactly one user.
//
// EndDate and AbandonedAt are mutually exclusive: at most one is set, and it
// agrees with Status (COMPLETED => EndDate, ABANDONED => AbandonedAt,
// ACTIVE => neither).
type Project struct {
	ID            uuid.UUID     `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID        uuid.UUID     `json:"userId" db:"user_id" gorm:"type:uuid;not null;index:idx_projects_user_id"`
	Name          string        `json:"name" db:"name" gorm:"type:varchar(100);not null"`
	Description   *string       `json:"description" db:"description" gorm:"type:text"`
	RepositoryURL *string       `json:"repositoryUrl" db:"repository_url" gorm:"type:text"`
	LiveURL       *string       `json:"liveUrl" db:"live_url" gorm:"type:text"`
	Status        ProjectStatus `json:"status" db:"status" gorm:"type:varchar(16);not null;default:'ACTIVE'"`
	StartDate     time.Time     `json:"startDate" db:"start_date" gorm:"not null"`
	EndDate       *time.Time    `json:"endDate" db:"end_date"`
	AbandonedAt   *time.Time    `json:"abandonedAt" db:"abandoned_at"`
	IsPublic      bool          `json:"isPublic" db:"is_public" gorm:"not null;default:false"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at" gorm:"not null"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at" gorm:"not null"`

	Tags        []ProjectTag        `json:"tags" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Abandonment *ProjectAbandonment `json:"abandonment" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Revivals    []ProjectRevival    `json:"revivals" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns an ID when the caller did not, so inserts work the
// same on databases without gen_random_uuid().
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
