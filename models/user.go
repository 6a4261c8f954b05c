package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the root owner of projects. Deleting a user cascades to every
// project they own (and transitively to tags, abandonments and revivals).
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Email        string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex:idx_users_email"`
	Name         string    `json:"name" db:"name" gorm:"type:text;not null"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text"`
	Location     *string   `json:"location" db:"location" gorm:"type:text"`
	Website      *string   `json:"website" db:"website" gorm:"type:text"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at" gorm:"not null"`

	Projects []Project `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
