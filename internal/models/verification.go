package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationRecord is one applied verification run against a resource. The
// rendered section is the same text appended to (or replacing) the resource's
// notes, kept here as an immutable, queryable history row.
type VerificationRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResourceID uint      `gorm:"index;not null" json:"resource_id"`
	Resource   *Resource `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
	VerifierID uuid.UUID `gorm:"type:uuid;not null" json:"verifier_id"`
	Verifier   *User     `gorm:"foreignKey:VerifierID" json:"verifier,omitempty"`
	StatusTag  string    `gorm:"type:varchar(50)" json:"status_tag"` // e.g., "verified", "needs_followup"
	NoteMode   string    `gorm:"type:varchar(10);not null" json:"note_mode"` // "append" or "replace"
	Section    string    `gorm:"type:text;not null" json:"section"`
	CreatedAt  time.Time `json:"created_at"`
}

func (v *VerificationRecord) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

type SystemSetting struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Key       string    `gorm:"uniqueIndex;not null"`
	Value     string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *SystemSetting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
