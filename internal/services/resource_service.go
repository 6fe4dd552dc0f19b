package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/communitydir/backend/internal/models"
	"github.com/communitydir/backend/pkg/validation"
	"gorm.io/gorm"
)

type ResourceService struct {
	db *gorm.DB
}

func NewResourceService(db *gorm.DB) *ResourceService {
	return &ResourceService{db: db}
}

// GetDB returns the database instance
func (s *ResourceService) GetDB() *gorm.DB {
	return s.db
}

// ResourceFilter narrows public and admin listing queries.
type ResourceFilter struct {
	Query        string
	CategorySlug string
	City         string
	Status       models.ResourceStatus
}

// CreateResource creates a new resource listing. New listings start as drafts
// unless an explicit status is set.
func (s *ResourceService) CreateResource(resource *models.Resource) error {
	if strings.TrimSpace(resource.Name) == "" {
		return errors.New("name is required")
	}

	if resource.Slug == "" {
		resource.Slug = validation.Slugify(resource.Name)
	}
	if !validation.ValidateSlug(resource.Slug) {
		return errors.New("invalid slug; use lowercase letters, digits and hyphens")
	}

	if resource.Status == "" {
		resource.Status = models.ResourceStatusDraft
	}
	if !validStatus(resource.Status) {
		return errors.New("invalid status; must be 'draft', 'published' or 'archived'")
	}

	if resource.Email != "" && !validation.ValidateEmail(resource.Email) {
		return errors.New("invalid email format")
	}
	if resource.Website != "" && !validation.ValidateURL(resource.Website) {
		return errors.New("invalid website url")
	}

	// Slug must be unique
	var count int64
	if err := s.db.Model(&models.Resource{}).Where("slug = ?", resource.Slug).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("slug %q already in use", resource.Slug)
	}

	return s.db.Create(resource).Error
}

// GetResourceByID retrieves a resource by ID
func (s *ResourceService) GetResourceByID(resourceID uint) (*models.Resource, error) {
	var resource models.Resource
	if err := s.db.Preload("Category").First(&resource, resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("resource not found")
		}
		return nil, err
	}
	return &resource, nil
}

// GetResourceBySlug retrieves a published resource by slug (public detail page)
func (s *ResourceService) GetResourceBySlug(slug string) (*models.Resource, error) {
	var resource models.Resource
	err := s.db.Preload("Category").
		Where("slug = ? AND status = ?", slug, models.ResourceStatusPublished).
		First(&resource).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("resource not found")
		}
		return nil, err
	}
	return &resource, nil
}

// UpdateResource updates an existing resource
func (s *ResourceService) UpdateResource(resourceID uint, updates map[string]interface{}) error {
	var resource models.Resource
	if err := s.db.First(&resource, resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("resource not found")
		}
		return err
	}

	if v, ok := updates["name"].(string); ok && v != "" {
		resource.Name = v
	}
	if v, ok := updates["slug"].(string); ok && v != "" {
		if !validation.ValidateSlug(v) {
			return errors.New("invalid slug; use lowercase letters, digits and hyphens")
		}
		resource.Slug = v
	}
	if v, ok := updates["description"].(string); ok {
		resource.Description = v
	}
	if v, ok := updates["services"].(string); ok {
		resource.Services = v
	}
	if v, ok := updates["phone"].(string); ok {
		resource.Phone = v
	}
	if v, ok := updates["email"].(string); ok {
		if v != "" && !validation.ValidateEmail(v) {
			return errors.New("invalid email format")
		}
		resource.Email = v
	}
	if v, ok := updates["website"].(string); ok {
		if v != "" && !validation.ValidateURL(v) {
			return errors.New("invalid website url")
		}
		resource.Website = v
	}
	if v, ok := updates["address"].(string); ok {
		resource.Address = v
	}
	if v, ok := updates["city"].(string); ok {
		resource.City = v
	}
	if v, ok := updates["state"].(string); ok {
		resource.State = strings.ToUpper(v)
	}
	if v, ok := updates["zip"].(string); ok {
		resource.Zip = v
	}
	if v, ok := updates["hours"].(string); ok {
		resource.Hours = v
	}
	if v, ok := updates["eligibility"].(string); ok {
		resource.Eligibility = v
	}
	if v, ok := updates["languages"].(string); ok {
		resource.Languages = v
	}
	if v, ok := updates["category_id"].(uint); ok && v > 0 {
		resource.CategoryID = &v
	}
	if v, ok := updates["verification_frequency_days"].(int); ok && v > 0 {
		resource.VerificationFrequencyDays = v
	}

	// Save through the model so BeforeSave normalizes the phone
	return s.db.Save(&resource).Error
}

// SetStatus transitions a resource between draft, published and archived.
// Listings are never deleted; archival is the terminal transition.
func (s *ResourceService) SetStatus(resourceID uint, status models.ResourceStatus) error {
	if !validStatus(status) {
		return errors.New("invalid status; must be 'draft', 'published' or 'archived'")
	}

	result := s.db.Model(&models.Resource{}).Where("id = ?", resourceID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("resource not found")
	}
	return nil
}

// SearchPublished retrieves published resources matching the filter, for the
// public browse/search surface.
func (s *ResourceService) SearchPublished(filter ResourceFilter, offset, limit int) ([]*models.Resource, int64, error) {
	filter.Status = models.ResourceStatusPublished
	return s.search(filter, offset, limit)
}

// SearchAll retrieves resources in any status, for admin management.
func (s *ResourceService) SearchAll(filter ResourceFilter, offset, limit int) ([]*models.Resource, int64, error) {
	return s.search(filter, offset, limit)
}

func (s *ResourceService) search(filter ResourceFilter, offset, limit int) ([]*models.Resource, int64, error) {
	var resources []*models.Resource
	var total int64

	query := s.db.Model(&models.Resource{}).Preload("Category")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR services ILIKE ?", like, like, like)
	}
	if filter.City != "" {
		query = query.Where("city ILIKE ?", filter.City)
	}
	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = resources.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get paginated results
	if err := query.Offset(offset).Limit(limit).Order("name ASC").Find(&resources).Error; err != nil {
		return nil, 0, err
	}

	return resources, total, nil
}

// GetPublishedResources loads every published resource, the candidate pool
// for verification scheduling.
func (s *ResourceService) GetPublishedResources() ([]models.Resource, error) {
	var resources []models.Resource
	err := s.db.Where("status = ?", models.ResourceStatusPublished).
		Order("id ASC").Find(&resources).Error
	return resources, err
}

// CountByStatus returns listing counts grouped by status
func (s *ResourceService) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.db.Model(&models.Resource{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func validStatus(status models.ResourceStatus) bool {
	switch status {
	case models.ResourceStatusDraft, models.ResourceStatusPublished, models.ResourceStatusArchived:
		return true
	}
	return false
}
