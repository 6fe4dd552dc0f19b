package handlers

import (
	"net/http"
	"strconv"

	"github.com/communitydir/backend/internal/models"
	"github.com/communitydir/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type PublicHandler struct {
	resourceService *services.ResourceService
	categoryService *services.CategoryService
}

func NewPublicHandler(resourceService *services.ResourceService, categoryService *services.CategoryService) *PublicHandler {
	return &PublicHandler{
		resourceService: resourceService,
		categoryService: categoryService,
	}
}

// SearchResources retrieves published resources with optional query, category
// and city filters
func (h *PublicHandler) SearchResources(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset := (page - 1) * limit

	filter := services.ResourceFilter{
		Query:        c.Query("q"),
		CategorySlug: c.Query("category"),
		City:         c.Query("city"),
	}

	resources, total, err := h.resourceService.SearchPublished(filter, offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve resources"})
		return
	}

	resourceList := make([]gin.H, len(resources))
	for i, resource := range resources {
		resourceList[i] = publicResourceJSON(resource)
	}

	c.JSON(http.StatusOK, gin.H{
		"resources": resourceList,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetResource retrieves a published resource by slug
func (h *PublicHandler) GetResource(c *gin.Context) {
	slug := c.Param("slug")

	resource, err := h.resourceService.GetResourceBySlug(slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"resource": publicResourceJSON(resource)})
}

// GetCategories retrieves all browse categories with listing counts
func (h *PublicHandler) GetCategories(c *gin.Context) {
	categories, counts, err := h.categoryService.GetAllCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}

	categoryList := make([]gin.H, len(categories))
	for i, category := range categories {
		categoryList[i] = gin.H{
			"id":          category.ID,
			"name":        category.Name,
			"slug":        category.Slug,
			"description": category.Description,
			"resources":   counts[category.ID],
		}
	}

	c.JSON(http.StatusOK, gin.H{"categories": categoryList})
}

// publicResourceJSON renders a listing for the public surface. The stored
// phone is digits-only; display formatting happens here, on read.
func publicResourceJSON(resource *models.Resource) gin.H {
	data := gin.H{
		"id":          resource.ID,
		"name":        resource.Name,
		"slug":        resource.Slug,
		"description": resource.Description,
		"services":    resource.Services,
		"phone":       resource.DisplayPhone(),
		"email":       resource.Email,
		"website":     resource.Website,
		"address":     resource.Address,
		"city":        resource.City,
		"state":       resource.State,
		"zip":         resource.Zip,
		"hours":       resource.Hours,
		"eligibility": resource.Eligibility,
		"languages":   resource.Languages,
	}
	if resource.Category != nil {
		data["category"] = gin.H{
			"name": resource.Category.Name,
			"slug": resource.Category.Slug,
		}
	}
	if resource.LastVerifiedAt != nil {
		data["last_verified_at"] = resource.LastVerifiedAt
	}
	return data
}
