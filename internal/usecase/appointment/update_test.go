package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/talkthroughit/therapy-api/internal/domain/appointment"
	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/models"
	"github.com/talkthroughit/therapy-api/internal/notification"
)

func ptr[T any](v T) *T { return &v }

func newUpdateUC(repo *fakeRepo, sender *fakeSender) *UpdateAppointment {
	dispatcher := notification.NewDispatcher(sender)
	uc := NewUpdateAppointment(repo, dispatcher, testReminders(dispatcher))
	uc.now = fixedNow
	return uc
}

func TestUpdateAppointment_ProviderConfirms(t *testing.T) {
	repo := seededRepo()
	storedAppointment(repo, fixedNow().Add(48*time.Hour), string(domain.StatusPending))
	sender := newFakeSender()
	uc := newUpdateUC(repo, sender)

	ap, err := uc.Execute(context.Background(), 10, 2, models.RoleProvider, UpdateAppointmentInput{
		Status: ptr(string(domain.StatusConfirmed)),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), ap.Status)

	ev := sender.wait(t)
	assert.Equal(t, notification.KindUpdated, ev.Kind)
}

func TestUpdateAppointment_SparsePatch(t *testing.T) {
	repo := seededRepo()
	before := storedAppointment(repo, fixedNow().Add(48*time.Hour), string(domain.StatusPending))
	before.MeetingType = domain.MeetingVideo
	before.DurationMinutes = 60
	uc := newUpdateUC(repo, newFakeSender())

	ap, err := uc.Execute(context.Background(), 10, 1, models.RoleClient, UpdateAppointmentInput{
		Notes: ptr("running 5 minutes late"),
	})
	require.NoError(t, err)

	assert.Equal(t, "running 5 minutes late", ap.Notes)
	assert.Equal(t, 60, ap.DurationMinutes, "untouched fields survive")
	assert.Equal(t, string(domain.StatusPending), ap.Status)
}

func TestUpdateAppointment_CancelViaStatusHonorsNotice(t *testing.T) {
	repo := seededRepo()
	storedAppointment(repo, fixedNow().Add(2*time.Hour), string(domain.StatusConfirmed))
	uc := newUpdateUC(repo, newFakeSender())

	_, err := uc.Execute(context.Background(), 10, 1, models.RoleClient, UpdateAppointmentInput{
		Status: ptr(string(domain.StatusCancelled)),
	})
	assert.True(t, httperr.IsBusiness(err, "cancellation_notice"),
		"the status route must not bypass the cancellation gate")
}

func TestUpdateAppointment_CancelViaStatus(t *testing.T) {
	repo := seededRepo()
	storedAppointment(repo, fixedNow().Add(48*time.Hour), string(domain.StatusConfirmed))
	sender := newFakeSender()
	uc := newUpdateUC(repo, sender)

	ap, err := uc.Execute(context.Background(), 10, 1, models.RoleClient, UpdateAppointmentInput{
		Status:             ptr(string(domain.StatusCancelled)),
		CancellationReason: "schedule conflict",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), ap.Status)
	assert.Equal(t, "Cancelled by client: schedule conflict", ap.CancellationReason)
	assert.Equal(t, []uint{10}, repo.released, "the reserved slot is freed")

	ev := sender.wait(t)
	assert.Equal(t, notification.KindCancelled, ev.Kind)
}

func TestUpdateAppointment_RescheduleSwapsSlot(t *testing.T) {
	repo := seededRepo()
	storedAppointment(repo, fixedNow().Add(48*time.Hour), string(domain.StatusConfirmed))
	sender := newFakeSender()
	uc := newUpdateUC(repo, sender)

	moved := fixedNow().Add(72 * time.Hour)
	ap, err := uc.Execute(context.Background(), 10, 1, models.RoleClient, UpdateAppointmentInput{
		Datetime: ptr(moved),
	})
	require.NoError(t, err)

	assert.True(t, moved.Equal(ap.Datetime))
	assert.Equal(t, []uint{10}, repo.rebooked, "a datetime change goes through the rebook transaction")
	assert.Empty(t, repo.released, "the slot swap happens inside the rebook, not as a separate release")

	ev := sender.wait(t)
	assert.Equal(t, notification.KindUpdated, ev.Kind)
}

func TestUpdateAppointment_RescheduleConflict(t *testing.T) {
	repo := seededRepo()
	storedAppointment(repo, fixedNow().Add(48*time.Hour), string(domain.StatusConfirmed))
	repo.conflict = true
	uc := newUpdateUC(repo, newFakeSender())

	_, err := uc.Execute(context.Background(), 10, 1, models.RoleClient, UpdateAppointmentInput{
		Datetime: ptr(fixedNow().Add(72 * time.Hour)),
	})
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))
	assert.Empty(t, repo.rebooked)
}

func TestUpdateAppointment_UnmovedDatetimeSkipsRebook(t *testing.T) {
	repo := seededRepo()
	when := fixedNow().Add(48 * time.Hour)
	storedAppointment(repo, when, string(domain.StatusConfirmed))
	uc := newUpdateUC(repo, newFakeSender())

	_, err := uc.Execute(context.Background(), 10, 1, models.RoleClient, UpdateAppointmentInput{
		Datetime: ptr(when),
		Notes:    ptr("same time, just a note"),
	})
	require.NoError(t, err)
	assert.Empty(t, repo.rebooked, "patching the same datetime is a plain update")
}

func TestUpdateAppointment_InvalidTransition(t *testing.T) {
	repo := seededRepo()
	storedAppointment(repo, fixedNow().Add(48*time.Hour), string(domain.StatusCancelled))
	uc := newUpdateUC(repo, newFakeSender())

	_, err := uc.Execute(context.Background(), 10, 1, models.RoleClient, UpdateAppointmentInput{
		Status: ptr(string(domain.StatusConfirmed)),
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestUpdateAppointment_NonParticipant(t *testing.T) {
	repo := seededRepo()
	storedAppointment(repo, fixedNow().Add(48*time.Hour), string(domain.StatusPending))
	uc := newUpdateUC(repo, newFakeSender())

	_, err := uc.Execute(context.Background(), 10, 77, models.RoleProvider, UpdateAppointmentInput{
		Notes: ptr("sneaky"),
	})
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestGetAppointment_ParticipantOnly(t *testing.T) {
	repo := seededRepo()
	storedAppointment(repo, fixedNow().Add(48*time.Hour), string(domain.StatusPending))
	uc := NewGetAppointment(repo)

	ap, err := uc.Execute(context.Background(), 10, 1, models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, uint(10), ap.ID)

	_, err = uc.Execute(context.Background(), 10, 3, models.RoleClient)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestListProviderAppointments_Defaults(t *testing.T) {
	repo := seededRepo()
	storedAppointment(repo, fixedNow().Add(48*time.Hour), string(domain.StatusPending))
	uc := NewListProviderAppointments(repo)

	page, err := uc.Execute(context.Background(), 2, domain.ProviderListFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.Pages)
	assert.Equal(t, int64(1), page.Total)
	assert.Len(t, page.Appointments, 1)
}
