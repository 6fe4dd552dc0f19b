package services

import (
	"errors"
	"strings"

	"github.com/communitydir/backend/internal/models"
	"github.com/communitydir/backend/pkg/validation"
	"gorm.io/gorm"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// CreateCategory creates a new browse category
func (s *CategoryService) CreateCategory(category *models.Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return errors.New("name is required")
	}
	if category.Slug == "" {
		category.Slug = validation.Slugify(category.Name)
	}
	if !validation.ValidateSlug(category.Slug) {
		return errors.New("invalid slug; use lowercase letters, digits and hyphens")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("slug = ? OR name = ?", category.Slug, category.Name).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("category already exists")
	}

	return s.db.Create(category).Error
}

// GetCategoryByID retrieves a category by ID
func (s *CategoryService) GetCategoryByID(categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, err
	}
	return &category, nil
}

// GetAllCategories retrieves all categories ordered by name, with published
// listing counts for the public browse page.
func (s *CategoryService) GetAllCategories() ([]*models.Category, map[uint]int64, error) {
	var categories []*models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, nil, err
	}

	var rows []struct {
		CategoryID uint
		Count      int64
	}
	err := s.db.Model(&models.Resource{}).
		Select("category_id, COUNT(*) as count").
		Where("status = ? AND category_id IS NOT NULL", models.ResourceStatusPublished).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.Count
	}

	return categories, counts, nil
}

// UpdateCategory updates a category's name and description
func (s *CategoryService) UpdateCategory(categoryID uint, updates map[string]interface{}) error {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("category not found")
		}
		return err
	}

	if v, ok := updates["name"].(string); ok && v != "" {
		category.Name = v
	}
	if v, ok := updates["slug"].(string); ok && v != "" {
		if !validation.ValidateSlug(v) {
			return errors.New("invalid slug; use lowercase letters, digits and hyphens")
		}
		category.Slug = v
	}
	if v, ok := updates["description"].(string); ok {
		category.Description = v
	}

	return s.db.Save(&category).Error
}

// DeleteCategory deletes a category with no attached resources
func (s *CategoryService) DeleteCategory(categoryID uint) error {
	var resourceCount int64
	if err := s.db.Model(&models.Resource{}).Where("category_id = ?", categoryID).Count(&resourceCount).Error; err != nil {
		return err
	}
	if resourceCount > 0 {
		return errors.New("cannot delete category with existing resources")
	}

	result := s.db.Delete(&models.Category{}, categoryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("category not found")
	}
	return nil
}
