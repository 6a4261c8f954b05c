package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AbandonmentReason classifies why a project was given up.
type AbandonmentReason string

const (
	ReasonTime         AbandonmentReason = "TIME"
	ReasonMotivation   AbandonmentReason = "MOTIVATION"
	ReasonTechnical    AbandonmentReason = "TECHNICAL"
	ReasonScope        AbandonmentReason = "SCOPE"
	ReasonMarket       AbandonmentReason = "MARKET"
	ReasonOrganization AbandonmentReason = "ORGANIZATION"
	ReasonBurnout      AbandonmentReason = "BURNOUT"
	ReasonOther        AbandonmentReason = "OTHER"
)

// AbandonmentReasons lists every recognized reason value.
var AbandonmentReasons = []AbandonmentReason{
	ReasonTime,
	ReasonMotivation,
	ReasonTechnical,
	ReasonScope,
	ReasonMarket,
	ReasonOrganization,
	ReasonBurnout,
	ReasonOther,
}

// ValidReason reports whether r is one of the recognized reason values.
func ValidReason(r AbandonmentReason) bool {
	for _, known := range AbandonmentReasons {
		if r == known {
			return true
		}
	}
	return false
}

// ProjectAbandonment records why a project was abandoned. One per project;
// re-abandoning overwrites the record, completing the project deletes it.
type ProjectAbandonment struct {
	ID               uuid.UUID                             `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID        uuid.UUID                             `json:"projectId" db:"project_id" gorm:"type:uuid;not null;uniqueIndex:idx_project_abandonments_project_id"`
	MainReason       AbandonmentReason                     `json:"mainReason" db:"main_reason" gorm:"type:varchar(16);not null"`
	SecondaryReasons datatypes.JSONSlice[AbandonmentReason] `json:"secondaryReasons" db:"secondary_reasons"`
	Retrospective    *string                               `json:"retrospective" db:"retrospective" gorm:"type:text"`
	LessonsLearned   *string                               `json:"lessonsLearned" db:"lessons_learned" gorm:"type:text"`
	CreatedAt        time.Time                             `json:"createdAt" db:"created_at" gorm:"not null"`
}

func (a *ProjectAbandonment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
