package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	domain "github.com/talkthroughit/therapy-api/internal/domain/appointment"
	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/models"
	"github.com/talkthroughit/therapy-api/internal/notification"
)

// UpdateAppointmentInput is a sparse patch; nil pointers leave the field
// untouched.
type UpdateAppointmentInput struct {
	Datetime        *time.Time
	DurationMinutes *int
	Status          *string
	MeetingType     *string
	MeetingLink     *string
	Location        *string
	Notes           *string

	ReminderHoursBefore *int

	// CancellationReason only applies when Status moves to cancelled.
	CancellationReason string
}

type UpdateAppointment struct {
	repo      domain.Repository
	notifier  *notification.Dispatcher
	reminders *notification.ReminderScheduler
	now       func() time.Time
}

func NewUpdateAppointment(
	repo domain.Repository,
	notifier *notification.Dispatcher,
	reminders *notification.ReminderScheduler,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:      repo,
		notifier:  notifier,
		reminders: reminders,
		now:       time.Now,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorID uint,
	actorRole string,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	// Either participant may update; everyone else sees a 404.
	if !domain.IsParticipant(ap, actorID, actorRole) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	// Status transitions go first: a cancellation gates on the stored
	// datetime and wins over everything else in the patch.
	if in.Status != nil && *in.Status != ap.Status {
		if !domain.IsValidStatus(*in.Status) {
			return nil, httperr.ErrBusinessMsg("invalid_status", "Unknown appointment status")
		}
		switch domain.Status(*in.Status) {
		case domain.StatusCancelled:
			if err := domain.Cancel(ap, actorRole, in.CancellationReason, uc.now()); err != nil {
				return nil, err
			}
			if err := uc.finishCancellation(ctx, ap); err != nil {
				return nil, err
			}
			return ap, nil
		case domain.StatusConfirmed:
			if err := domain.Confirm(ap); err != nil {
				return nil, err
			}
		default:
			if err := domain.CanTransition(domain.Status(ap.Status), domain.Status(*in.Status)); err != nil {
				return nil, err
			}
			ap.Status = *in.Status
		}
	}

	previous := ap.Datetime
	moved := false
	if in.Datetime != nil && !in.Datetime.Equal(ap.Datetime) {
		ap.Datetime = *in.Datetime
		moved = true
	}
	if in.DurationMinutes != nil && *in.DurationMinutes > 0 {
		ap.DurationMinutes = *in.DurationMinutes
	}
	if in.MeetingType != nil {
		ap.MeetingType = *in.MeetingType
	}
	if in.MeetingLink != nil {
		ap.MeetingLink = *in.MeetingLink
	}
	if in.Location != nil {
		ap.Location = *in.Location
	}
	if in.Notes != nil {
		ap.Notes = *in.Notes
	}
	reminderChanged := false
	if in.ReminderHoursBefore != nil && *in.ReminderHoursBefore > 0 {
		ap.ReminderHoursBefore = *in.ReminderHoursBefore
		reminderChanged = true
	}

	if err := domain.PrepareMeetingMeta(ap); err != nil {
		return nil, err
	}

	// A reschedule swaps the reserved slot and re-checks conflicts at the
	// new time, in the same transaction as the save.
	if moved {
		if err := uc.repo.Rebook(ctx, ap, previous); err != nil {
			return nil, err
		}
	} else if err := uc.repo.Update(ctx, ap); err != nil {
		return nil, err
	}

	if moved || reminderChanged {
		uc.reminders.Schedule(ctx, ap)
	}
	uc.notifier.Dispatch(notification.Event{Kind: notification.KindUpdated, Appointment: ap})

	return ap, nil
}

// finishCancellation persists the cancel and does the same bookkeeping as
// the dedicated cancel endpoint: free the slot, drop the reminder, notify.
func (uc *UpdateAppointment) finishCancellation(ctx context.Context, ap *models.Appointment) error {
	if err := uc.repo.Update(ctx, ap); err != nil {
		return err
	}

	if err := uc.repo.ReleaseSlot(ctx, ap); err != nil {
		log.Error().Err(err).Uint("appointment_id", ap.ID).Msg("failed to release slot")
	}

	uc.reminders.Cancel(ctx, ap.ID)
	uc.notifier.Dispatch(notification.Event{Kind: notification.KindCancelled, Appointment: ap})
	return nil
}
