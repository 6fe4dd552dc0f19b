package models

import (
	"time"

	"github.com/communitydir/backend/pkg/phone"
	"gorm.io/gorm"
)

// ResourceStatus is the publication state of a directory listing. Archival is
// a status transition, never a row deletion.
type ResourceStatus string

const (
	ResourceStatusDraft     ResourceStatus = "draft"
	ResourceStatusPublished ResourceStatus = "published"
	ResourceStatusArchived  ResourceStatus = "archived"
)

// Resource is a service-provider listing in the directory. The numeric ID is
// kept as the stable secondary sort key for verification scheduling.
type Resource struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;index" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Services    string `gorm:"type:text" json:"services"`

	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	// Contact. Phone is persisted in canonical digits-only form; display
	// formatting happens on read.
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`

	// Location
	Address string `json:"address"`
	City    string `gorm:"index" json:"city"`
	State   string `gorm:"type:varchar(2)" json:"state"`
	Zip     string `gorm:"type:varchar(10)" json:"zip"`

	Hours       string `json:"hours"`
	Eligibility string `gorm:"type:text" json:"eligibility"`
	Languages   string `json:"languages"`

	Status ResourceStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`

	// Verification bookkeeping. Nil LastVerifiedAt means never verified and
	// therefore due immediately.
	LastVerifiedAt            *time.Time `json:"last_verified_at"`
	VerificationFrequencyDays int        `gorm:"not null;default:180" json:"verification_frequency_days"`
	Notes                     string     `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave normalizes the phone field to its canonical storage form. Runs
// on every create and update so no code path can persist separators.
func (r *Resource) BeforeSave(tx *gorm.DB) error {
	r.Phone = phone.Normalize(r.Phone)
	if r.VerificationFrequencyDays <= 0 {
		r.VerificationFrequencyDays = 180
	}
	return nil
}

// DisplayPhone returns the human-readable rendering of the stored phone.
func (r *Resource) DisplayPhone() string {
	return phone.Format(r.Phone)
}

// NextVerificationDate computes when the resource is next due. The second
// return value is false when the resource has never been verified, which
// callers must treat as due immediately.
func (r *Resource) NextVerificationDate() (time.Time, bool) {
	if r.LastVerifiedAt == nil {
		return time.Time{}, false
	}
	return r.LastVerifiedAt.AddDate(0, 0, r.VerificationFrequencyDays), true
}

// Category groups listings for public browsing (shelter, food, health, ...).
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Resources []Resource `gorm:"foreignKey:CategoryID" json:"resources,omitempty"`
}
