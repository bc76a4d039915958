package handlers

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/httpresp"
	"github.com/talkthroughit/therapy-api/internal/middleware"
	"github.com/talkthroughit/therapy-api/internal/models"
	"github.com/talkthroughit/therapy-api/internal/storage"
)

type ProviderHandler struct {
	db      *gorm.DB
	storage *storage.S3Store
}

func NewProviderHandler(db *gorm.DB, store *storage.S3Store) *ProviderHandler {
	return &ProviderHandler{db: db, storage: store}
}

type ProviderProfileUpdateRequest struct {
	FirstName         *string   `json:"firstName"`
	LastName          *string   `json:"lastName"`
	Credentials       *string   `json:"credentials"`
	Bio               *string   `json:"bio"`
	Location          *string   `json:"location"`
	InsuranceAccepted *[]string `json:"insuranceAccepted"`
	Languages         *[]string `json:"languages"`
	YearsOfExperience *int      `json:"yearsOfExperience"`
	LicensureState    *string   `json:"licensureState"`
	LicenseNumber     *string   `json:"licenseNumber"`
	Telehealth        *bool     `json:"telehealth"`
	InPerson          *bool     `json:"inPerson"`
	AcceptingClients  *bool     `json:"acceptingClients"`
}

func ownProviderID(c *gin.Context) (uint, bool) {
	actor := middleware.CurrentActor(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid provider id.")
		return 0, false
	}
	if !actor.IsProvider() || actor.ID != uint(id) {
		httperr.Unauthorized(c, "unauthorized", "You can only access your own profile.")
		return 0, false
	}
	return uint(id), true
}

func (h *ProviderHandler) GetProfile(c *gin.Context) {
	id, ok := ownProviderID(c)
	if !ok {
		return
	}

	var provider models.Provider
	if err := h.db.Preload("Specialties").First(&provider, id).Error; err != nil {
		httperr.NotFound(c, "provider_not_found", "Provider profile not found.")
		return
	}

	httpresp.OK(c, gin.H{"provider": provider})
}

func (h *ProviderHandler) UpdateProfile(c *gin.Context) {
	id, ok := ownProviderID(c)
	if !ok {
		return
	}

	var req ProviderProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid profile data.")
		return
	}

	var provider models.Provider
	if err := h.db.First(&provider, id).Error; err != nil {
		httperr.NotFound(c, "provider_not_found", "Provider profile not found.")
		return
	}

	if req.FirstName != nil {
		provider.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		provider.LastName = *req.LastName
	}
	if req.Credentials != nil {
		provider.Credentials = *req.Credentials
	}
	if req.Bio != nil {
		provider.Bio = *req.Bio
	}
	if req.Location != nil {
		provider.Location = *req.Location
	}
	if req.InsuranceAccepted != nil {
		provider.InsuranceAccepted = *req.InsuranceAccepted
	}
	if req.Languages != nil {
		provider.Languages = *req.Languages
	}
	if req.YearsOfExperience != nil {
		provider.YearsOfExperience = *req.YearsOfExperience
	}
	if req.LicensureState != nil {
		provider.LicensureState = *req.LicensureState
	}
	if req.LicenseNumber != nil {
		provider.LicenseNumber = *req.LicenseNumber
	}
	if req.Telehealth != nil {
		provider.Telehealth = *req.Telehealth
	}
	if req.InPerson != nil {
		provider.InPerson = *req.InPerson
	}
	if req.AcceptingClients != nil {
		provider.AcceptingClients = *req.AcceptingClients
	}

	if err := h.db.Save(&provider).Error; err != nil {
		httperr.Internal(c, "failed_to_update_provider", "Error updating profile.")
		return
	}

	httpresp.OK(c, gin.H{"provider": provider})
}

// ListAll is the public directory listing.
func (h *ProviderHandler) ListAll(c *gin.Context) {
	var providers []models.Provider
	if err := h.db.
		Preload("Specialties").
		Order("last_name ASC, first_name ASC").
		Find(&providers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_providers", "Error retrieving providers.")
		return
	}
	httpresp.List(c, providers)
}

// UploadProfileImage stores the image in S3 and saves the public URL on the
// provider record.
func (h *ProviderHandler) UploadProfileImage(c *gin.Context) {
	id, ok := ownProviderID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "An image file is required.")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		httperr.BadRequest(c, "invalid_image", "Only image uploads are accepted.")
		return
	}

	key := fmt.Sprintf("providers/%d/%s%s", id, uuid.NewString(), filepath.Ext(header.Filename))

	url, err := h.storage.Upload(c.Request.Context(), key, file, contentType)
	if err != nil {
		httperr.Internal(c, "upload_failed", "Error storing profile image.")
		return
	}

	if err := h.db.
		Model(&models.Provider{}).
		Where("id = ?", id).
		Update("profile_image_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_provider", "Error saving profile image.")
		return
	}

	httpresp.OK(c, gin.H{"profileImageUrl": url})
}
