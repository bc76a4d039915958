package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/httpresp"
	"github.com/talkthroughit/therapy-api/internal/middleware"
	"github.com/talkthroughit/therapy-api/internal/models"
)

type SavedProviderHandler struct {
	db *gorm.DB
}

func NewSavedProviderHandler(db *gorm.DB) *SavedProviderHandler {
	return &SavedProviderHandler{db: db}
}

type SaveProviderRequest struct {
	ProviderID uint   `json:"providerId" binding:"required"`
	Category   string `json:"category"`
	Notes      string `json:"notes"`
}

type SavedProviderUpdateRequest struct {
	Category *string `json:"category"`
	Notes    *string `json:"notes"`
}

// Save bookmarks a provider under a category. Each (client, provider) pair
// is saved at most once.
func (h *SavedProviderHandler) Save(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var req SaveProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "providerId is required.")
		return
	}

	category := req.Category
	if category == "" {
		category = models.CategoryFavorites
	}
	if !models.IsValidSavedCategory(category) {
		httperr.BadRequest(c, "invalid_category", "Unknown saved-provider category.")
		return
	}

	var count int64
	h.db.Model(&models.Provider{}).Where("id = ?", req.ProviderID).Count(&count)
	if count == 0 {
		httperr.NotFound(c, "provider_not_found", "Provider not found.")
		return
	}

	h.db.Model(&models.SavedProvider{}).
		Where("client_id = ? AND provider_id = ?", actor.ID, req.ProviderID).
		Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "already_saved", "Provider is already saved.")
		return
	}

	saved := models.SavedProvider{
		ClientID:   actor.ID,
		ProviderID: req.ProviderID,
		Category:   category,
		Notes:      req.Notes,
	}

	if err := h.db.Create(&saved).Error; err != nil {
		httperr.Internal(c, "failed_to_save_provider", "Error saving provider.")
		return
	}

	h.db.Preload("Provider").First(&saved, saved.ID)

	httpresp.Created(c, gin.H{"savedProvider": saved})
}

// List returns the caller's saved providers, optionally one category.
func (h *SavedProviderHandler) List(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	query := h.db.
		Preload("Provider").
		Preload("Provider.Specialties").
		Where("client_id = ?", actor.ID)

	if category := c.Query("category"); category != "" {
		if !models.IsValidSavedCategory(category) {
			httperr.BadRequest(c, "invalid_category", "Unknown saved-provider category.")
			return
		}
		query = query.Where("category = ?", category)
	}

	var saved []models.SavedProvider
	if err := query.Order("updated_at DESC").Find(&saved).Error; err != nil {
		httperr.Internal(c, "failed_to_list_saved", "Error retrieving saved providers.")
		return
	}

	httpresp.List(c, saved)
}

// Update changes the category or notes of one saved entry.
func (h *SavedProviderHandler) Update(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	saved, ok := h.ownedEntry(c, actor.ID)
	if !ok {
		return
	}

	var req SavedProviderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid saved-provider data.")
		return
	}

	if req.Category != nil {
		if !models.IsValidSavedCategory(*req.Category) {
			httperr.BadRequest(c, "invalid_category", "Unknown saved-provider category.")
			return
		}
		saved.Category = *req.Category
	}
	if req.Notes != nil {
		saved.Notes = *req.Notes
	}

	if err := h.db.Save(saved).Error; err != nil {
		httperr.Internal(c, "failed_to_update_saved", "Error updating saved provider.")
		return
	}

	httpresp.OK(c, gin.H{"savedProvider": saved})
}

func (h *SavedProviderHandler) Remove(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	saved, ok := h.ownedEntry(c, actor.ID)
	if !ok {
		return
	}

	if err := h.db.Delete(saved).Error; err != nil {
		httperr.Internal(c, "failed_to_remove_saved", "Error removing saved provider.")
		return
	}

	httpresp.OK(c, gin.H{"message": "Provider removed from saved list"})
}

// ownedEntry loads the entry and hides other clients' entries behind the
// same not-found as a missing id.
func (h *SavedProviderHandler) ownedEntry(c *gin.Context, clientID uint) (*models.SavedProvider, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid saved-provider id.")
		return nil, false
	}

	var saved models.SavedProvider
	if err := h.db.Preload("Provider").First(&saved, uint(id)).Error; err != nil {
		httperr.NotFound(c, "saved_provider_not_found", "Saved provider not found.")
		return nil, false
	}
	if saved.ClientID != clientID {
		httperr.NotFound(c, "saved_provider_not_found", "Saved provider not found.")
		return nil, false
	}
	return &saved, true
}
