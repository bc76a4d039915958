package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/talkthroughit/therapy-api/internal/domain/appointment"
	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/httpresp"
	"github.com/talkthroughit/therapy-api/internal/middleware"
	usecase "github.com/talkthroughit/therapy-api/internal/usecase/appointment"
)

type AppointmentHandler struct {
	book         *usecase.BookAppointment
	get          *usecase.GetAppointment
	update       *usecase.UpdateAppointment
	cancel       *usecase.CancelAppointment
	listUpcoming *usecase.ListUpcomingAppointments
	listProvider *usecase.ListProviderAppointments
}

func NewAppointmentHandler(
	book *usecase.BookAppointment,
	get *usecase.GetAppointment,
	update *usecase.UpdateAppointment,
	cancel *usecase.CancelAppointment,
	listUpcoming *usecase.ListUpcomingAppointments,
	listProvider *usecase.ListProviderAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:         book,
		get:          get,
		update:       update,
		cancel:       cancel,
		listUpcoming: listUpcoming,
		listProvider: listProvider,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientID   uint `json:"clientId"`
	ProviderID uint `json:"providerId"`

	Datetime        time.Time `json:"datetime" binding:"required"`
	DurationMinutes int       `json:"durationMinutes"`

	MeetingType string `json:"meetingType" binding:"required,oneof=video phone in-person"`
	MeetingLink string `json:"meetingLink"`
	Location    string `json:"location"`
	Notes       string `json:"notes"`

	ReminderHoursBefore int `json:"reminderHoursBefore"`
}

type UpdateAppointmentRequest struct {
	Datetime        *time.Time `json:"datetime"`
	DurationMinutes *int       `json:"durationMinutes"`
	Status          *string    `json:"status"`
	MeetingType     *string    `json:"meetingType"`
	MeetingLink     *string    `json:"meetingLink"`
	Location        *string    `json:"location"`
	Notes           *string    `json:"notes"`

	ReminderHoursBefore *int `json:"reminderHoursBefore"`

	CancellationReason string `json:"cancellationReason"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// writeAppointmentError maps business errors onto statuses: absent records
// are 404, every rule violation is 400.
func writeAppointmentError(c *gin.Context, err error) {
	if be, ok := httperr.AsBusiness(err); ok {
		if strings.HasSuffix(be.Code, "_not_found") {
			httperr.NotFound(c, be.Code, be.Message)
			return
		}
		httperr.BadRequest(c, be.Code, be.Message)
		return
	}
	httperr.Internal(c, "appointment_error", "Error processing appointment.")
}

func appointmentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return 0, false
	}
	return uint(id), true
}

// ======================================================
// HANDLERS
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid appointment data.")
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), usecase.BookAppointmentInput{
		ActorID:             actor.ID,
		ActorRole:           actor.Role,
		ClientID:            req.ClientID,
		ProviderID:          req.ProviderID,
		Datetime:            req.Datetime,
		DurationMinutes:     req.DurationMinutes,
		MeetingType:         req.MeetingType,
		MeetingLink:         req.MeetingLink,
		Location:            req.Location,
		Notes:               req.Notes,
		ReminderHoursBefore: req.ReminderHoursBefore,
	})
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.Created(c, gin.H{"appointment": ap})
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	id, ok := appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), id, actor.ID, actor.Role)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"appointment": ap})
}

func (h *AppointmentHandler) ListUpcoming(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	aps, err := h.listUpcoming.Execute(c.Request.Context(), actor.ID, actor.Role)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Error retrieving appointments.")
		return
	}

	httpresp.OK(c, gin.H{"appointments": aps})
}

// ListForProvider is the provider's filtered, paginated history view.
func (h *AppointmentHandler) ListForProvider(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	f := domain.ProviderListFilter{
		Status:    c.Query("status"),
		Timeframe: c.DefaultQuery("timeframe", domain.TimeframeAll),
	}

	if f.Timeframe != domain.TimeframeAll &&
		f.Timeframe != domain.TimeframeUpcoming &&
		f.Timeframe != domain.TimeframePast {
		httperr.BadRequest(c, "invalid_timeframe", "Timeframe must be all, upcoming or past.")
		return
	}

	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			t, err = time.Parse("2006-01-02", v)
		}
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "startDate must be an ISO date.")
			return
		}
		f.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			t, err = time.Parse("2006-01-02", v)
		}
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "endDate must be an ISO date.")
			return
		}
		f.EndDate = &t
	}

	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	page, err := h.listProvider.Execute(c.Request.Context(), actor.ID, f)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Error retrieving appointments.")
		return
	}

	httpresp.OK(c, page)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid appointment data.")
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), id, actor.ID, actor.Role, usecase.UpdateAppointmentInput{
		Datetime:            req.Datetime,
		DurationMinutes:     req.DurationMinutes,
		Status:              req.Status,
		MeetingType:         req.MeetingType,
		MeetingLink:         req.MeetingLink,
		Location:            req.Location,
		Notes:               req.Notes,
		ReminderHoursBefore: req.ReminderHoursBefore,
		CancellationReason:  req.CancellationReason,
	})
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"appointment": ap})
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancel.Execute(c.Request.Context(), id, actor.ID, actor.Role, req.Reason)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message":     "Appointment cancelled",
		"appointment": ap,
	})
}
