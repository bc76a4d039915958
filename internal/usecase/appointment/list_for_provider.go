package appointment

import (
	"context"
	"time"

	domain "github.com/talkthroughit/therapy-api/internal/domain/appointment"
	"github.com/talkthroughit/therapy-api/internal/models"
)

type ProviderAppointmentPage struct {
	Appointments []models.Appointment `json:"appointments"`
	Total        int64                `json:"total"`
	Page         int                  `json:"page"`
	Pages        int                  `json:"pages"`
}

type ListProviderAppointments struct {
	repo domain.Repository
	now  func() time.Time
}

func NewListProviderAppointments(repo domain.Repository) *ListProviderAppointments {
	return &ListProviderAppointments{repo: repo, now: time.Now}
}

func (uc *ListProviderAppointments) Execute(
	ctx context.Context,
	providerID uint,
	f domain.ProviderListFilter,
) (*ProviderAppointmentPage, error) {

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.Timeframe == "" {
		f.Timeframe = domain.TimeframeAll
	}
	f.Now = uc.now()

	aps, total, err := uc.repo.ListForProvider(ctx, providerID, f)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(f.Limit) - 1) / int64(f.Limit))
	if pages < 1 {
		pages = 1
	}

	return &ProviderAppointmentPage{
		Appointments: aps,
		Total:        total,
		Page:         f.Page,
		Pages:        pages,
	}, nil
}
