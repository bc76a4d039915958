package handlers

import (
	"errors"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talkthroughit/therapy-api/internal/domain/availability"
	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/httpresp"
	"github.com/talkthroughit/therapy-api/internal/middleware"
	"github.com/talkthroughit/therapy-api/internal/models"
)

type AvailabilityHandler struct {
	db *gorm.DB
}

func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{db: db}
}

// ======================================================
// REQUESTS
// ======================================================

type AvailabilityDayConfig struct {
	DayOfWeek   string            `json:"dayOfWeek"`
	TimeSlots   []models.TimeSlot `json:"timeSlots"`
	IsAvailable *bool             `json:"isAvailable"`
}

type AvailabilityUpdateRequest struct {
	AvailabilityData []AvailabilityDayConfig `json:"availabilityData" binding:"required"`
}

// ======================================================
// READS
// ======================================================

func parseProviderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("providerId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid provider id.")
		return 0, false
	}
	return uint(id), true
}

// GetProviderAvailability returns every configured day, Monday first.
func (h *AvailabilityHandler) GetProviderAvailability(c *gin.Context) {
	providerID, ok := parseProviderID(c)
	if !ok {
		return
	}

	var days []models.AvailabilityDay
	if err := h.db.
		Where("provider_id = ?", providerID).
		Find(&days).Error; err != nil {
		httperr.Internal(c, "failed_to_get_availability", "Error retrieving availability.")
		return
	}

	sortDays(days)

	httpresp.OK(c, gin.H{
		"providerId":   providerID,
		"availability": days,
	})
}

// GetDayAvailability returns only the free slots of one weekday, optionally
// narrowed by meeting type.
func (h *AvailabilityHandler) GetDayAvailability(c *gin.Context) {
	providerID, ok := parseProviderID(c)
	if !ok {
		return
	}

	dayOfWeek := c.Param("dayOfWeek")
	if !availability.IsValidWeekday(dayOfWeek) {
		httperr.BadRequest(c, "invalid_day", "Unknown day of week.")
		return
	}

	var day models.AvailabilityDay
	err := h.db.
		Where("provider_id = ? AND day_of_week = ? AND is_available = ?", providerID, dayOfWeek, true).
		First(&day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpresp.OK(c, gin.H{
			"providerId": providerID,
			"dayOfWeek":  dayOfWeek,
			"available":  false,
			"timeSlots":  []models.TimeSlot{},
		})
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_get_availability", "Error retrieving day availability.")
		return
	}

	httpresp.OK(c, gin.H{
		"providerId": providerID,
		"dayOfWeek":  dayOfWeek,
		"available":  true,
		"timeSlots":  day.FreeSlots(c.Query("meetingType")),
	})
}

// GetPublicAvailability is the provider card plus per-day free slots shown
// to anyone browsing.
func (h *AvailabilityHandler) GetPublicAvailability(c *gin.Context) {
	providerID, ok := parseProviderID(c)
	if !ok {
		return
	}

	var provider models.Provider
	if err := h.db.First(&provider, providerID).Error; err != nil {
		httperr.NotFound(c, "provider_not_found", "Provider not found.")
		return
	}

	var days []models.AvailabilityDay
	if err := h.db.
		Where("provider_id = ? AND is_available = ?", providerID, true).
		Find(&days).Error; err != nil {
		httperr.Internal(c, "failed_to_get_availability", "Error retrieving availability.")
		return
	}

	sortDays(days)

	type publicDay struct {
		DayOfWeek   string            `json:"dayOfWeek"`
		IsAvailable bool              `json:"isAvailable"`
		TimeSlots   []models.TimeSlot `json:"timeSlots"`
	}

	publicDays := make([]publicDay, 0, len(days))
	for _, d := range days {
		publicDays = append(publicDays, publicDay{
			DayOfWeek:   d.DayOfWeek,
			IsAvailable: d.IsAvailable,
			TimeSlots:   d.FreeSlots(""),
		})
	}

	httpresp.OK(c, gin.H{
		"provider": gin.H{
			"id":              provider.ID,
			"firstName":       provider.FirstName,
			"lastName":        provider.LastName,
			"credentials":     provider.Credentials,
			"location":        provider.Location,
			"profileImageUrl": provider.ProfileImageURL,
		},
		"availability": publicDays,
	})
}

// ======================================================
// UPDATE (provider only)
// ======================================================

// Update upserts the caller's week. Every day is validated before anything
// is written, and the writes share one transaction, so a bad Wednesday
// never half-applies the week.
func (h *AvailabilityHandler) Update(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var req AvailabilityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid availability data format.")
		return
	}

	var count int64
	h.db.Model(&models.Provider{}).Where("id = ?", actor.ID).Count(&count)
	if count == 0 {
		httperr.NotFound(c, "provider_not_found", "Provider not found.")
		return
	}

	days := make([]*models.AvailabilityDay, 0, len(req.AvailabilityData))
	for _, d := range req.AvailabilityData {
		isAvailable := true
		if d.IsAvailable != nil {
			isAvailable = *d.IsAvailable
		}
		days = append(days, &models.AvailabilityDay{
			ProviderID:  actor.ID,
			DayOfWeek:   d.DayOfWeek,
			TimeSlots:   d.TimeSlots,
			IsAvailable: isAvailable,
		})
	}

	if err := availability.ValidateWeek(days); err != nil {
		if be, ok := httperr.AsBusiness(err); ok {
			httperr.BadRequest(c, be.Code, be.Message)
			return
		}
		httperr.BadRequest(c, "invalid_request", "Invalid availability data.")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for _, day := range days {
			if err := tx.
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "provider_id"}, {Name: "day_of_week"}},
					UpdateAll: true,
				}).
				Create(day).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_availability", "Error updating availability.")
		return
	}

	sortDaysPtr(days)

	httpresp.OK(c, gin.H{
		"message":      "Availability updated successfully",
		"availability": days,
	})
}

func sortDays(days []models.AvailabilityDay) {
	sort.Slice(days, func(i, j int) bool {
		return availability.WeekdayRank(days[i].DayOfWeek) < availability.WeekdayRank(days[j].DayOfWeek)
	})
}

func sortDaysPtr(days []*models.AvailabilityDay) {
	sort.Slice(days, func(i, j int) bool {
		return availability.WeekdayRank(days[i].DayOfWeek) < availability.WeekdayRank(days[j].DayOfWeek)
	})
}
