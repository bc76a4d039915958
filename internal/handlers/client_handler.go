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

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

type ClientProfileUpdateRequest struct {
	FirstName         *string `json:"firstName"`
	LastName          *string `json:"lastName"`
	Location          *string `json:"location"`
	InsuranceProvider *string `json:"insuranceProvider"`
	TherapyGoals      *string `json:"therapyGoals"`
}

// ownClientID enforces that the path id matches the token subject; the
// mismatch status is 401, matching the profile contract.
func ownClientID(c *gin.Context) (uint, bool) {
	actor := middleware.CurrentActor(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid client id.")
		return 0, false
	}
	if !actor.IsClient() || actor.ID != uint(id) {
		httperr.Unauthorized(c, "unauthorized", "You can only access your own profile.")
		return 0, false
	}
	return uint(id), true
}

func (h *ClientHandler) GetProfile(c *gin.Context) {
	id, ok := ownClientID(c)
	if !ok {
		return
	}

	var client models.Client
	if err := h.db.First(&client, id).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Client profile not found.")
		return
	}

	httpresp.OK(c, gin.H{"client": client})
}

// UpdateProfile patches profile fields. Email and password are never
// updatable through this endpoint.
func (h *ClientHandler) UpdateProfile(c *gin.Context) {
	id, ok := ownClientID(c)
	if !ok {
		return
	}

	var req ClientProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid profile data.")
		return
	}

	var client models.Client
	if err := h.db.First(&client, id).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Client profile not found.")
		return
	}

	if req.FirstName != nil {
		client.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		client.LastName = *req.LastName
	}
	if req.Location != nil {
		client.Location = *req.Location
	}
	if req.InsuranceProvider != nil {
		client.InsuranceProvider = *req.InsuranceProvider
	}
	if req.TherapyGoals != nil {
		client.TherapyGoals = *req.TherapyGoals
	}

	if err := h.db.Save(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_update_client", "Error updating profile.")
		return
	}

	httpresp.OK(c, gin.H{"client": client})
}
