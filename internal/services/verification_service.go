package services

import (
	"errors"
	"time"

	"github.com/communitydir/backend/internal/config"
	"github.com/communitydir/backend/internal/models"
	"github.com/communitydir/backend/internal/verify"
	"gorm.io/gorm"
)

// VerificationService drives the resource verification workflow: selecting
// the next due listing, previewing operator updates, and applying approved
// results. Selection and note rendering are pure; this service owns only the
// final persistence step.
type VerificationService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewVerificationService(db *gorm.DB, cfg *config.Config) *VerificationService {
	return &VerificationService{db: db, cfg: cfg}
}

// ApplyInput is the operator payload for a verification run. Fields carries
// per-field override values; Sources optionally cites where each value was
// confirmed, keyed by the same field names. Mode must be explicit.
type ApplyInput struct {
	Fields     verify.FieldOverrides
	Sources    map[string]string
	StatusTag  string
	Confidence string
	Summary    string
	Consulted  []string
	Mode       verify.NoteMode
	// VerificationNotes, when set, is written as the note section verbatim
	// instead of the rendered result.
	VerificationNotes string
}

// NextDue selects the published resource most in need of verification.
// Returns verify.ErrNoResourceDue when nothing qualifies.
func (s *VerificationService) NextDue(now time.Time) (*models.Resource, error) {
	candidates, err := s.loadPublished()
	if err != nil {
		return nil, err
	}
	return verify.SelectNext(candidates, now)
}

// Preview computes the diff an operator payload would cause, without
// persisting anything.
func (s *VerificationService) Preview(resourceID uint, fields verify.FieldOverrides) (*models.Resource, []verify.FieldChange, error) {
	resource, err := s.loadResource(resourceID)
	if err != nil {
		return nil, nil, err
	}
	return resource, verify.Diff(*resource, fields), nil
}

// Apply persists an approved verification run: field overrides, the rendered
// note section (append or replace, per the explicit mode), the verification
// timestamp, and an immutable history record. The approval gate is the caller
// choosing to invoke Apply rather than Preview.
func (s *VerificationService) Apply(resourceID uint, verifier *models.User, input ApplyInput) (*models.Resource, error) {
	if input.Mode != verify.NoteAppend && input.Mode != verify.NoteReplace {
		return nil, errors.New("note mode must be 'append' or 'replace'")
	}

	resource, err := s.loadResource(resourceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	changes := verify.Diff(*resource, input.Fields)
	for i := range changes {
		changes[i].Source = input.Sources[changes[i].Field]
	}

	verify.ApplyOverrides(resource, input.Fields)
	resource.LastVerifiedAt = &now

	section := input.VerificationNotes
	if section == "" {
		result := verify.Result{
			Date:           now,
			Verifier:       verifierName(verifier),
			StatusTag:      input.StatusTag,
			Confidence:     input.Confidence,
			Summary:        input.Summary,
			Changes:        changes,
			Sources:        input.Consulted,
			NextReviewDate: now.AddDate(0, 0, resource.VerificationFrequencyDays),
		}
		section = result.RenderSection()
	}
	resource.Notes = verify.ApplyNote(resource.Notes, section, input.Mode)

	record := &models.VerificationRecord{
		ResourceID: resource.ID,
		StatusTag:  input.StatusTag,
		NoteMode:   string(input.Mode),
		Section:    section,
	}
	if verifier != nil {
		record.VerifierID = verifier.ID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(resource).Error; err != nil {
			return err
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	return resource, nil
}

// ApplyTemplate replaces a resource's notes with one of the two well-known
// skeletons: the empty template when result is nil, otherwise the filled one.
// Template application is always a wholesale replacement and does not touch
// the verification timestamp.
func (s *VerificationService) ApplyTemplate(resourceID uint, result *verify.Result) (*models.Resource, error) {
	resource, err := s.loadResource(resourceID)
	if err != nil {
		return nil, err
	}

	if result == nil {
		resource.Notes = verify.EmptyTemplate()
	} else {
		resource.Notes = verify.FilledTemplate(*result)
	}

	if err := s.db.Save(resource).Error; err != nil {
		return nil, err
	}
	return resource, nil
}

// GetHistory retrieves applied verification records for a resource, newest
// first.
func (s *VerificationService) GetHistory(resourceID uint, page, limit int) ([]*models.VerificationRecord, int64, error) {
	var records []*models.VerificationRecord
	var total int64

	query := s.db.Model(&models.VerificationRecord{}).
		Preload("Verifier").
		Where("resource_id = ?", resourceID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// DueSummary reports the current verification backlog for the operator
// digest: how many published listings have never been verified, how many are
// overdue, and which one the scheduler would hand out next.
func (s *VerificationService) DueSummary(now time.Time) (neverVerified, overdue int, next *models.Resource, err error) {
	candidates, err := s.loadPublished()
	if err != nil {
		return 0, 0, nil, err
	}

	neverVerified, overdue = verify.DueCount(candidates, now)

	next, err = verify.SelectNext(candidates, now)
	if errors.Is(err, verify.ErrNoResourceDue) {
		return neverVerified, overdue, nil, nil
	}
	if err != nil {
		return 0, 0, nil, err
	}
	return neverVerified, overdue, next, nil
}

func (s *VerificationService) loadPublished() ([]models.Resource, error) {
	var resources []models.Resource
	err := s.db.Where("status = ?", models.ResourceStatusPublished).
		Order("id ASC").Find(&resources).Error
	return resources, err
}

func (s *VerificationService) loadResource(resourceID uint) (*models.Resource, error) {
	var resource models.Resource
	if err := s.db.First(&resource, resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("resource not found")
		}
		return nil, err
	}
	return &resource, nil
}

func verifierName(u *models.User) string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
