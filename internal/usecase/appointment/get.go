package appointment

import (
	"context"

	domain "github.com/talkthroughit/therapy-api/internal/domain/appointment"
	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/models"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

// Execute returns the appointment only to its participants. Non-participants
// get the same not-found as a missing record, so the endpoint does not leak
// which ids exist.
func (uc *GetAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorID uint,
	actorRole string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if !domain.IsParticipant(ap, actorID, actorRole) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	return ap, nil
}
