package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/httpresp"
	"github.com/talkthroughit/therapy-api/internal/models"
)

type SpecialtyHandler struct {
	db *gorm.DB
}

func NewSpecialtyHandler(db *gorm.DB) *SpecialtyHandler {
	return &SpecialtyHandler{db: db}
}

type CreateSpecialtyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type ProviderSpecialtiesRequest struct {
	SpecialtyIDs []uint `json:"specialtyIds" binding:"required"`
}

// List is public: the full catalogue, grouped-friendly ordering.
func (h *SpecialtyHandler) List(c *gin.Context) {
	var specialties []models.Specialty
	if err := h.db.Order("category ASC, name ASC").Find(&specialties).Error; err != nil {
		httperr.Internal(c, "failed_to_list_specialties", "Error retrieving specialties.")
		return
	}
	httpresp.List(c, specialties)
}

func (h *SpecialtyHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid specialty id.")
		return
	}

	var specialty models.Specialty
	if err := h.db.First(&specialty, uint(id)).Error; err != nil {
		httperr.NotFound(c, "specialty_not_found", "Specialty not found.")
		return
	}

	httpresp.OK(c, gin.H{"specialty": specialty})
}

// ProvidersBySpecialty lists providers offering one specialty.
func (h *SpecialtyHandler) ProvidersBySpecialty(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid specialty id.")
		return
	}

	var specialty models.Specialty
	if err := h.db.First(&specialty, uint(id)).Error; err != nil {
		httperr.NotFound(c, "specialty_not_found", "Specialty not found.")
		return
	}

	var providers []models.Provider
	if err := h.db.
		Preload("Specialties").
		Where("id IN (SELECT provider_id FROM provider_specialties WHERE specialty_id = ?)", specialty.ID).
		Order("last_name ASC, first_name ASC").
		Find(&providers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_providers", "Error retrieving providers.")
		return
	}

	httpresp.OK(c, gin.H{
		"specialty": specialty,
		"providers": providers,
	})
}

// UpdateProviderSpecialties replaces the caller's specialty set.
func (h *SpecialtyHandler) UpdateProviderSpecialties(c *gin.Context) {
	id, ok := ownProviderID(c)
	if !ok {
		return
	}

	var req ProviderSpecialtiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "specialtyIds is required.")
		return
	}

	var provider models.Provider
	if err := h.db.First(&provider, id).Error; err != nil {
		httperr.NotFound(c, "provider_not_found", "Provider not found.")
		return
	}

	var specialties []models.Specialty
	if len(req.SpecialtyIDs) > 0 {
		if err := h.db.Find(&specialties, req.SpecialtyIDs).Error; err != nil {
			httperr.Internal(c, "failed_to_update_specialties", "Error loading specialties.")
			return
		}
		if len(specialties) != len(req.SpecialtyIDs) {
			httperr.BadRequest(c, "unknown_specialty", "One or more specialty ids do not exist.")
			return
		}
	}

	if err := h.db.Model(&provider).Association("Specialties").Replace(specialties); err != nil {
		httperr.Internal(c, "failed_to_update_specialties", "Error updating specialties.")
		return
	}

	httpresp.OK(c, gin.H{"specialties": specialties})
}

// Create adds a catalogue entry. The route is provider-gated; the unique
// index on name rejects duplicates.
func (h *SpecialtyHandler) Create(c *gin.Context) {
	var req CreateSpecialtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "name is required.")
		return
	}

	var count int64
	h.db.Model(&models.Specialty{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "specialty_exists", "A specialty with this name already exists.")
		return
	}

	specialty := models.Specialty{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	}

	if err := h.db.Create(&specialty).Error; err != nil {
		httperr.Internal(c, "failed_to_create_specialty", "Error creating specialty.")
		return
	}

	httpresp.Created(c, gin.H{"specialty": specialty})
}
