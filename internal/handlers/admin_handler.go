package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/communitydir/backend/internal/models"
	"github.com/communitydir/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService    *services.AdminService
	resourceService *services.ResourceService
	categoryService *services.CategoryService
	userService     *services.UserService
	referralService *services.ReferralService
	auditService    *services.AuditService
}

func NewAdminHandler(adminService *services.AdminService, resourceService *services.ResourceService, categoryService *services.CategoryService, userService *services.UserService, referralService *services.ReferralService, auditService *services.AuditService) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		resourceService: resourceService,
		categoryService: categoryService,
		userService:     userService,
		referralService: referralService,
		auditService:    auditService,
	}
}

func (h *AdminHandler) logAction(c *gin.Context, action, targetType, targetID string, details map[string]interface{}) {
	adminID, exists := c.Get("userID")
	if !exists {
		return
	}
	_ = h.auditService.LogAction(adminID.(uuid.UUID), action, targetType, targetID, details, c.ClientIP(), c.Request.UserAgent())
}

// GetAllResources retrieves resources in any status for admin management
func (h *AdminHandler) GetAllResources(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset := (page - 1) * limit

	filter := services.ResourceFilter{
		Query:        c.Query("q"),
		CategorySlug: c.Query("category"),
		City:         c.Query("city"),
		Status:       models.ResourceStatus(c.Query("status")),
	}

	resources, total, err := h.resourceService.SearchAll(filter, offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve resources"})
		return
	}

	resourceList := make([]gin.H, len(resources))
	for i, resource := range resources {
		resourceList[i] = adminResourceJSON(resource)
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

// GetResourceDetails retrieves one resource including its audit notes
func (h *AdminHandler) GetResourceDetails(c *gin.Context) {
	resourceID, err := parseResourceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	resource, err := h.resourceService.GetResourceByID(resourceID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	data := adminResourceJSON(resource)
	data["notes"] = resource.Notes
	c.JSON(http.StatusOK, gin.H{"resource": data})
}

// CreateResource creates a new resource listing
func (h *AdminHandler) CreateResource(c *gin.Context) {
	var req struct {
		Name                      string `json:"name" binding:"required"`
		Slug                      string `json:"slug"`
		Description               string `json:"description"`
		Services                  string `json:"services"`
		CategoryID                uint   `json:"category_id"`
		Phone                     string `json:"phone"`
		Email                     string `json:"email"`
		Website                   string `json:"website"`
		Address                   string `json:"address"`
		City                      string `json:"city"`
		State                     string `json:"state"`
		Zip                       string `json:"zip"`
		Hours                     string `json:"hours"`
		Eligibility               string `json:"eligibility"`
		Languages                 string `json:"languages"`
		VerificationFrequencyDays int    `json:"verification_frequency_days"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	frequency := req.VerificationFrequencyDays
	if frequency <= 0 {
		frequency, _ = h.adminService.GetDefaultVerificationFrequency()
	}

	resource := &models.Resource{
		Name:                      req.Name,
		Slug:                      req.Slug,
		Description:               req.Description,
		Services:                  req.Services,
		Phone:                     req.Phone,
		Email:                     req.Email,
		Website:                   req.Website,
		Address:                   req.Address,
		City:                      req.City,
		State:                     req.State,
		Zip:                       req.Zip,
		Hours:                     req.Hours,
		Eligibility:               req.Eligibility,
		Languages:                 req.Languages,
		Status:                    models.ResourceStatusDraft,
		VerificationFrequencyDays: frequency,
	}
	if req.CategoryID > 0 {
		resource.CategoryID = &req.CategoryID
	}

	if err := h.resourceService.CreateResource(resource); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logAction(c, "create_resource", "resource", strconv.Itoa(int(resource.ID)), map[string]interface{}{"name": resource.Name})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Resource created successfully",
		"resource": adminResourceJSON(resource),
	})
}

// UpdateResource updates an existing resource
func (h *AdminHandler) UpdateResource(c *gin.Context) {
	resourceID, err := parseResourceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	var req struct {
		Name                      string  `json:"name"`
		Slug                      string  `json:"slug"`
		Description               *string `json:"description"`
		Services                  *string `json:"services"`
		CategoryID                uint    `json:"category_id"`
		Phone                     *string `json:"phone"`
		Email                     *string `json:"email"`
		Website                   *string `json:"website"`
		Address                   *string `json:"address"`
		City                      *string `json:"city"`
		State                     *string `json:"state"`
		Zip                       *string `json:"zip"`
		Hours                     *string `json:"hours"`
		Eligibility               *string `json:"eligibility"`
		Languages                 *string `json:"languages"`
		VerificationFrequencyDays int     `json:"verification_frequency_days"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Slug != "" {
		updates["slug"] = req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Services != nil {
		updates["services"] = *req.Services
	}
	if req.CategoryID > 0 {
		updates["category_id"] = req.CategoryID
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.Zip != nil {
		updates["zip"] = *req.Zip
	}
	if req.Hours != nil {
		updates["hours"] = *req.Hours
	}
	if req.Eligibility != nil {
		updates["eligibility"] = *req.Eligibility
	}
	if req.Languages != nil {
		updates["languages"] = *req.Languages
	}
	if req.VerificationFrequencyDays > 0 {
		updates["verification_frequency_days"] = req.VerificationFrequencyDays
	}

	if err := h.resourceService.UpdateResource(resourceID, updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logAction(c, "update_resource", "resource", strconv.Itoa(int(resourceID)), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Resource updated successfully"})
}

// SetResourceStatus transitions a resource between draft, published and archived
func (h *AdminHandler) SetResourceStatus(c *gin.Context) {
	resourceID, err := parseResourceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.ResourceStatus(req.Status)
	if err := h.resourceService.SetStatus(resourceID, status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action := "update_resource_status"
	if status == models.ResourceStatusArchived {
		action = "archive_resource"
	}
	h.logAction(c, action, "resource", strconv.Itoa(int(resourceID)), map[string]interface{}{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"message": "Resource status updated successfully"})
}

// ExportResourcesCSV streams all resources as CSV
func (h *AdminHandler) ExportResourcesCSV(c *gin.Context) {
	resources, _, err := h.resourceService.SearchAll(services.ResourceFilter{}, 0, 100000)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve resources"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=resources_%s.csv", time.Now().Format("2006-01-02")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	_ = writer.Write([]string{"id", "name", "slug", "status", "category", "phone", "email", "website", "address", "city", "state", "zip", "last_verified_at", "verification_frequency_days"})

	for _, resource := range resources {
		category := ""
		if resource.Category != nil {
			category = resource.Category.Name
		}
		lastVerified := ""
		if resource.LastVerifiedAt != nil {
			lastVerified = resource.LastVerifiedAt.Format(time.RFC3339)
		}
		_ = writer.Write([]string{
			strconv.Itoa(int(resource.ID)),
			resource.Name,
			resource.Slug,
			string(resource.Status),
			category,
			resource.DisplayPhone(),
			resource.Email,
			resource.Website,
			resource.Address,
			resource.City,
			resource.State,
			resource.Zip,
			lastVerified,
			strconv.Itoa(resource.VerificationFrequencyDays),
		})
	}
}

// GetResourceReferralPDF renders a printable referral card for a resource
func (h *AdminHandler) GetResourceReferralPDF(c *gin.Context) {
	resourceID, err := parseResourceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	resource, err := h.resourceService.GetResourceByID(resourceID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	pdfBytes, err := h.referralService.GenerateReferralPDF(resource)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate referral card"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=referral_%s.pdf", resource.Slug))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// CreateCategory creates a new browse category
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}

	if err := h.categoryService.CreateCategory(category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logAction(c, "create_category", "category", strconv.Itoa(int(category.ID)), map[string]interface{}{"name": category.Name})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": category,
	})
}

// UpdateCategory updates a category
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var req struct {
		Name        string  `json:"name"`
		Slug        string  `json:"slug"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Slug != "" {
		updates["slug"] = req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if err := h.categoryService.UpdateCategory(categoryID, updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully"})
}

// DeleteCategory deletes an empty category
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	if err := h.categoryService.DeleteCategory(categoryID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logAction(c, "delete_category", "category", strconv.Itoa(int(categoryID)), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// GetAllUsers retrieves all operator accounts
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	search := c.Query("search")
	offset := (page - 1) * limit

	var users []*models.User
	var total int64
	var err error

	if search != "" {
		users, total, err = h.userService.SearchUsers(search, offset, limit)
	} else {
		users, total, err = h.userService.GetAllUsers(offset, limit)
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	userList := make([]gin.H, len(users))
	for i, user := range users {
		userList[i] = gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"name":       user.Name,
			"is_admin":   user.IsAdmin,
			"is_active":  user.IsActive,
			"created_at": user.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"users": userList,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// CreateUser creates a new operator account
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=30"`
		Email    string `json:"email" binding:"required,email"`
		Name     string `json:"name" binding:"required"`
		IsAdmin  bool   `json:"is_admin"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, _, err := h.adminService.CreateOperator(req.Username, req.Email, req.Name, req.IsAdmin)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logAction(c, "create_user", "user", user.ID.String(), map[string]interface{}{"username": user.Username})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Operator account created; credentials sent by email",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"name":     user.Name,
			"is_admin": user.IsAdmin,
		},
	})
}

// UpdateUserActive activates or deactivates an operator account
func (h *AdminHandler) UpdateUserActive(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.UpdateUserActive(userID, *req.IsActive); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logAction(c, "update_user_active", "user", userID.String(), map[string]interface{}{"is_active": *req.IsActive})

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

// ResetUserPassword resets an operator's password
func (h *AdminHandler) ResetUserPassword(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	newPassword, err := h.adminService.ResetUserPassword(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logAction(c, "reset_user_password", "user", userID.String(), nil)

	c.JSON(http.StatusOK, gin.H{
		"message":      "Password reset successfully",
		"new_password": newPassword,
	})
}

// GetAuditLogs retrieves recent admin actions
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	action := c.Query("action")

	var adminID *uuid.UUID
	if idStr := c.Query("admin_id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid admin ID"})
			return
		}
		adminID = &id
	}

	logs, total, err := h.auditService.GetRecentActions(page, limit, adminID, action)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs": logs,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetAuditStats retrieves audit log statistics
func (h *AdminHandler) GetAuditStats(c *gin.Context) {
	stats, err := h.auditService.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetVerificationFrequency retrieves the default re-verification interval
func (h *AdminHandler) GetVerificationFrequency(c *gin.Context) {
	days, err := h.adminService.GetDefaultVerificationFrequency()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve verification frequency"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"verification_frequency_days": days})
}

// UpdateVerificationFrequency updates the default re-verification interval
func (h *AdminHandler) UpdateVerificationFrequency(c *gin.Context) {
	var req struct {
		Days int `json:"verification_frequency_days" binding:"required,min=1"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminService.UpdateDefaultVerificationFrequency(req.Days); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":                     "Verification frequency updated successfully",
		"verification_frequency_days": req.Days,
	})
}

func adminResourceJSON(resource *models.Resource) gin.H {
	data := gin.H{
		"id":                          resource.ID,
		"name":                        resource.Name,
		"slug":                        resource.Slug,
		"description":                 resource.Description,
		"services":                    resource.Services,
		"phone":                       resource.DisplayPhone(),
		"phone_raw":                   resource.Phone,
		"email":                       resource.Email,
		"website":                     resource.Website,
		"address":                     resource.Address,
		"city":                        resource.City,
		"state":                       resource.State,
		"zip":                         resource.Zip,
		"hours":                       resource.Hours,
		"eligibility":                 resource.Eligibility,
		"languages":                   resource.Languages,
		"status":                      resource.Status,
		"last_verified_at":            resource.LastVerifiedAt,
		"verification_frequency_days": resource.VerificationFrequencyDays,
		"created_at":                  resource.CreatedAt,
		"updated_at":                  resource.UpdatedAt,
	}
	if next, ok := resource.NextVerificationDate(); ok {
		data["next_verification_date"] = next
	}
	if resource.Category != nil {
		data["category"] = gin.H{
			"id":   resource.Category.ID,
			"name": resource.Category.Name,
			"slug": resource.Category.Slug,
		}
	}
	return data
}

func parseResourceID(c *gin.Context) (uint, error) {
	return parseUintParam(c, "id")
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}
