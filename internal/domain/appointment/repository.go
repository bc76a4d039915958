package appointment

import (
	"context"
	"time"

	"github.com/talkthroughit/therapy-api/internal/models"
)

// Timeframe shorthand for provider dashboard listings. An explicit date
// range overrides it.
const (
	TimeframeAll      = "all"
	TimeframeUpcoming = "upcoming"
	TimeframePast     = "past"
)

type ProviderListFilter struct {
	Status    string
	Timeframe string
	StartDate *time.Time
	EndDate   *time.Time

	Page  int
	Limit int

	Now time.Time
}

type Repository interface {
	// -------- Parties --------
	GetClient(ctx context.Context, id uint) (*models.Client, error)
	GetProvider(ctx context.Context, id uint) (*models.Provider, error)

	// -------- Appointment (create / conflict) --------

	// CreateBooked persists the appointment and reserves the matching
	// availability slot in a single transaction. It fails with
	// time_conflict when the slot is already booked or an active
	// appointment overlaps the interval.
	CreateBooked(ctx context.Context, ap *models.Appointment) error

	// ReleaseSlot frees the slot a cancelled appointment had reserved.
	ReleaseSlot(ctx context.Context, ap *models.Appointment) error

	// Rebook moves an appointment to a new datetime: conflict-checks the
	// new interval, releases the slot reserved at previous, reserves the
	// new one and saves, all in one transaction.
	Rebook(ctx context.Context, ap *models.Appointment, previous time.Time) error

	// -------- Appointment (read / state change) --------
	GetByID(ctx context.Context, id uint) (*models.Appointment, error)
	Update(ctx context.Context, ap *models.Appointment) error

	ListUpcoming(ctx context.Context, userID uint, role string, now time.Time) ([]models.Appointment, error)
	ListForProvider(ctx context.Context, providerID uint, f ProviderListFilter) ([]models.Appointment, int64, error)
}
