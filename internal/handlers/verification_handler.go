package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/communitydir/backend/internal/models"
	"github.com/communitydir/backend/internal/services"
	"github.com/communitydir/backend/internal/verify"
	"github.com/gin-gonic/gin"
)

type VerificationHandler struct {
	verificationService *services.VerificationService
	verifier            verify.Verifier
}

func NewVerificationHandler(verificationService *services.VerificationService, verifier verify.Verifier) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
		verifier:            verifier,
	}
}

// GetNextDue hands out the published resource most in need of verification
func (h *VerificationHandler) GetNextDue(c *gin.Context) {
	resource, err := h.verificationService.NextDue(time.Now().UTC())
	if errors.Is(err, verify.ErrNoResourceDue) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "no_resource_due",
			"message": "All published resources are up to date",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to select next resource"})
		return
	}

	data := adminResourceJSON(resource)
	data["notes"] = resource.Notes
	c.JSON(http.StatusOK, gin.H{
		"status":   "due",
		"resource": data,
	})
}

// PreviewVerification computes the field changes an operator payload would
// cause, without saving anything
func (h *VerificationHandler) PreviewVerification(c *gin.Context) {
	resourceID, err := parseResourceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	var req struct {
		Fields map[string]string `json:"fields"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resource, changes, err := h.verificationService.Preview(resourceID, verify.FieldOverrides(req.Fields))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resource": gin.H{
			"id":   resource.ID,
			"name": resource.Name,
			"slug": resource.Slug,
		},
		"changes": changes,
	})
}

// ApplyVerification persists an approved verification run
func (h *VerificationHandler) ApplyVerification(c *gin.Context) {
	resourceID, err := parseResourceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	var req struct {
		Fields            map[string]string `json:"fields"`
		Sources           map[string]string `json:"sources"`
		StatusTag         string            `json:"status_tag"`
		Confidence        string            `json:"confidence"`
		Summary           string            `json:"summary"`
		Consulted         []string          `json:"consulted"`
		Mode              string            `json:"mode" binding:"required"`
		VerificationNotes string            `json:"verification_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	verifierUser := userInterface.(*models.User)

	input := services.ApplyInput{
		Fields:            verify.FieldOverrides(req.Fields),
		Sources:           req.Sources,
		StatusTag:         req.StatusTag,
		Confidence:        req.Confidence,
		Summary:           req.Summary,
		Consulted:         req.Consulted,
		Mode:              verify.NoteMode(req.Mode),
		VerificationNotes: req.VerificationNotes,
	}

	resource, err := h.verificationService.Apply(resourceID, verifierUser, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data := adminResourceJSON(resource)
	data["notes"] = resource.Notes
	c.JSON(http.StatusOK, gin.H{
		"message":  "Verification applied successfully",
		"resource": data,
	})
}

// ApplyNotesTemplate resets a resource's notes to the empty skeleton, or to
// the filled variant when a result payload is given
func (h *VerificationHandler) ApplyNotesTemplate(c *gin.Context) {
	resourceID, err := parseResourceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	var req struct {
		Result *struct {
			Date       string   `json:"date"`
			Verifier   string   `json:"verifier"`
			StatusTag  string   `json:"status_tag"`
			Confidence string   `json:"confidence"`
			Summary    string   `json:"summary"`
			Consulted  []string `json:"consulted"`
		} `json:"result"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var result *verify.Result
	if req.Result != nil {
		date, err := time.Parse("2006-01-02", req.Result.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "result date must be YYYY-MM-DD"})
			return
		}
		result = &verify.Result{
			Date:       date,
			Verifier:   req.Result.Verifier,
			StatusTag:  req.Result.StatusTag,
			Confidence: req.Result.Confidence,
			Summary:    req.Result.Summary,
			Sources:    req.Result.Consulted,
		}
	}

	resource, err := h.verificationService.ApplyTemplate(resourceID, result)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notes template applied successfully",
		"notes":   resource.Notes,
	})
}

// GetVerificationHistory lists applied verification records for a resource
func (h *VerificationHandler) GetVerificationHistory(c *gin.Context) {
	resourceID, err := parseResourceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, total, err := h.verificationService.GetHistory(resourceID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve verification history"})
		return
	}

	recordList := make([]gin.H, len(records))
	for i, record := range records {
		entry := gin.H{
			"id":         record.ID,
			"status_tag": record.StatusTag,
			"note_mode":  record.NoteMode,
			"section":    record.Section,
			"created_at": record.CreatedAt,
		}
		if record.Verifier != nil {
			entry["verifier"] = gin.H{
				"id":       record.Verifier.ID,
				"username": record.Verifier.Username,
				"name":     record.Verifier.Name,
			}
		}
		recordList[i] = entry
	}

	c.JSON(http.StatusOK, gin.H{
		"records": recordList,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// CheckWebsite probes a listed website for reachability
func (h *VerificationHandler) CheckWebsite(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.verifier.CheckWebsite(c.Request.Context(), req.URL))
}

// CheckPhone validates a phone value against the accepted shapes
func (h *VerificationHandler) CheckPhone(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.verifier.CheckPhone(req.Phone))
}

// CheckEmail validates an email address format
func (h *VerificationHandler) CheckEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.verifier.CheckEmail(req.Email))
}

// CheckAddress validates the completeness of a postal address
func (h *VerificationHandler) CheckAddress(c *gin.Context) {
	var req verify.AddressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.verifier.CheckAddress(req))
}
