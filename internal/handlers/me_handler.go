package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talkthroughit/therapy-api/internal/middleware"
	"github.com/talkthroughit/therapy-api/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

// GetMe resolves the caller's own profile from the token, dispatching on
// role exactly once.
func (h *MeHandler) GetMe(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	if actor.IsClient() {
		var client models.Client
		if err := h.db.First(&client, actor.ID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile_not_found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"type": models.RoleClient, "user": client})
		return
	}

	var provider models.Provider
	if err := h.db.Preload("Specialties").First(&provider, actor.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile_not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": models.RoleProvider, "user": provider})
}
