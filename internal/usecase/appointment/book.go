package appointment

import (
	"context"
	"time"

	domain "github.com/talkthroughit/therapy-api/internal/domain/appointment"
	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/models"
	"github.com/talkthroughit/therapy-api/internal/notification"
)

// ======================================================
// INPUT
// ======================================================

type BookAppointmentInput struct {
	ActorID   uint
	ActorRole string

	// ClientID is ignored for client actors (the token wins);
	// ProviderID is ignored for provider actors.
	ClientID   uint
	ProviderID uint

	Datetime        time.Time
	DurationMinutes int

	MeetingType string
	MeetingLink string
	Location    string
	Notes       string

	ReminderHoursBefore int
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo      domain.Repository
	notifier  *notification.Dispatcher
	reminders *notification.ReminderScheduler
}

func NewBookAppointment(
	repo domain.Repository,
	notifier *notification.Dispatcher,
	reminders *notification.ReminderScheduler,
) *BookAppointment {
	return &BookAppointment{
		repo:      repo,
		notifier:  notifier,
		reminders: reminders,
	}
}

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	clientID, providerID := in.ClientID, in.ProviderID
	if in.ActorRole == models.RoleClient {
		clientID = in.ActorID
	} else {
		providerID = in.ActorID
	}

	if _, err := uc.repo.GetClient(ctx, clientID); err != nil {
		return nil, httperr.ErrBusiness("client_not_found")
	}
	if _, err := uc.repo.GetProvider(ctx, providerID); err != nil {
		return nil, httperr.ErrBusiness("provider_not_found")
	}

	if in.Datetime.IsZero() {
		return nil, httperr.ErrBusinessMsg("invalid_datetime", "Appointment datetime is required")
	}

	duration := in.DurationMinutes
	if duration <= 0 {
		duration = 60
	}
	reminderHours := in.ReminderHoursBefore
	if reminderHours <= 0 {
		reminderHours = 24
	}

	ap := &models.Appointment{
		ClientID:            clientID,
		ProviderID:          providerID,
		Datetime:            in.Datetime,
		DurationMinutes:     duration,
		Status:              string(domain.InitialStatus()),
		MeetingType:         in.MeetingType,
		MeetingLink:         in.MeetingLink,
		Location:            in.Location,
		Notes:               in.Notes,
		ReminderHoursBefore: reminderHours,
	}

	if err := domain.PrepareMeetingMeta(ap); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateBooked(ctx, ap); err != nil {
		return nil, err
	}

	uc.reminders.Schedule(ctx, ap)
	uc.notifier.Dispatch(notification.Event{
		Kind:        notification.KindCreated,
		Appointment: ap,
	})

	return ap, nil
}
