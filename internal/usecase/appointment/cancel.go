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

type CancelAppointment struct {
	repo      domain.Repository
	notifier  *notification.Dispatcher
	reminders *notification.ReminderScheduler
	now       func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	notifier *notification.Dispatcher,
	reminders *notification.ReminderScheduler,
) *CancelAppointment {
	return &CancelAppointment{
		repo:      repo,
		notifier:  notifier,
		reminders: reminders,
		now:       time.Now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorID uint,
	actorRole string,
	reason string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if !domain.IsParticipant(ap, actorID, actorRole) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.Cancel(ap, actorRole, reason, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, ap); err != nil {
		return nil, err
	}

	// Free the slot the booking reserved. The cancellation itself already
	// committed, so a release failure is logged, not surfaced.
	if err := uc.repo.ReleaseSlot(ctx, ap); err != nil {
		log.Error().Err(err).Uint("appointment_id", ap.ID).Msg("failed to release slot")
	}

	uc.reminders.Cancel(ctx, ap.ID)
	uc.notifier.Dispatch(notification.Event{
		Kind:        notification.KindCancelled,
		Appointment: ap,
	})

	return ap, nil
}
