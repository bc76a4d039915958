package appointment

import (
	"context"
	"time"

	domain "github.com/talkthroughit/therapy-api/internal/domain/appointment"
	"github.com/talkthroughit/therapy-api/internal/models"
)

type ListUpcomingAppointments struct {
	repo domain.Repository
	now  func() time.Time
}

func NewListUpcomingAppointments(repo domain.Repository) *ListUpcomingAppointments {
	return &ListUpcomingAppointments{repo: repo, now: time.Now}
}

func (uc *ListUpcomingAppointments) Execute(
	ctx context.Context,
	actorID uint,
	actorRole string,
) ([]models.Appointment, error) {
	return uc.repo.ListUpcoming(ctx, actorID, actorRole, uc.now())
}
