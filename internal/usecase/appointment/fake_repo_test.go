package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/talkthroughit/therapy-api/internal/domain/appointment"
	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/models"
	"github.com/talkthroughit/therapy-api/internal/notification"
)

// fakeRepo is an in-memory stand-in for the gorm repository.
type fakeRepo struct {
	clients      map[uint]*models.Client
	providers    map[uint]*models.Provider
	appointments map[uint]*models.Appointment
	nextID       uint

	conflict bool
	released []uint
	rebooked []uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		clients:      map[uint]*models.Client{},
		providers:    map[uint]*models.Provider{},
		appointments: map[uint]*models.Appointment{},
		nextID:       1,
	}
}

func (r *fakeRepo) GetClient(_ context.Context, id uint) (*models.Client, error) {
	if c, ok := r.clients[id]; ok {
		return c, nil
	}
	return nil, errors.New("record not found")
}

func (r *fakeRepo) GetProvider(_ context.Context, id uint) (*models.Provider, error) {
	if p, ok := r.providers[id]; ok {
		return p, nil
	}
	return nil, errors.New("record not found")
}

func (r *fakeRepo) CreateBooked(_ context.Context, ap *models.Appointment) error {
	if r.conflict {
		return httperr.ErrBusinessMsg("time_conflict", "This time slot is already booked")
	}
	ap.ID = r.nextID
	r.nextID++
	r.appointments[ap.ID] = ap
	return nil
}

func (r *fakeRepo) ReleaseSlot(_ context.Context, ap *models.Appointment) error {
	r.released = append(r.released, ap.ID)
	return nil
}

func (r *fakeRepo) Rebook(_ context.Context, ap *models.Appointment, _ time.Time) error {
	if r.conflict {
		return httperr.ErrBusinessMsg("time_conflict", "Provider already has an appointment in that interval")
	}
	r.rebooked = append(r.rebooked, ap.ID)
	r.appointments[ap.ID] = ap
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uint) (*models.Appointment, error) {
	if ap, ok := r.appointments[id]; ok {
		return ap, nil
	}
	return nil, errors.New("record not found")
}

func (r *fakeRepo) Update(_ context.Context, ap *models.Appointment) error {
	r.appointments[ap.ID] = ap
	return nil
}

func (r *fakeRepo) ListUpcoming(_ context.Context, userID uint, role string, now time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if !domain.IsParticipant(ap, userID, role) {
			continue
		}
		if ap.Status == string(domain.StatusCancelled) || ap.Datetime.Before(now) {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func (r *fakeRepo) ListForProvider(_ context.Context, providerID uint, _ domain.ProviderListFilter) ([]models.Appointment, int64, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ProviderID == providerID {
			out = append(out, *ap)
		}
	}
	return out, int64(len(out)), nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// sentEvent is what fakeSender records per notice.
type sentEvent struct {
	Kind          string
	AppointmentID uint
}

type fakeSender struct {
	events chan sentEvent
}

func newFakeSender() *fakeSender {
	return &fakeSender{events: make(chan sentEvent, 16)}
}

func (s *fakeSender) SendAppointmentNotice(_ context.Context, ap *models.Appointment, kind string) error {
	s.events <- sentEvent{Kind: kind, AppointmentID: ap.ID}
	return nil
}

func (s *fakeSender) wait(t *testing.T) sentEvent {
	t.Helper()
	select {
	case ev := <-s.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notice")
		return sentEvent{}
	}
}

// testReminders returns a scheduler whose redis is unreachable; Schedule and
// Cancel log the failure and move on, which is all these tests need.
func testReminders(d *notification.Dispatcher) *notification.ReminderScheduler {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	return notification.NewReminderScheduler(rdb, nil, d)
}
