package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/models"
)

func TestCanCancel_NoticeWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		datetime time.Time
		ok       bool
	}{
		{"well outside window", now.Add(72 * time.Hour), true},
		{"exactly 24h out", now.Add(24 * time.Hour), true},
		{"one minute inside window", now.Add(24*time.Hour - time.Minute), false},
		{"one hour away", now.Add(time.Hour), false},
		{"already started", now.Add(-time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanCancel(tc.datetime, now)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, httperr.IsBusiness(err, "cancellation_notice"))
			}
		})
	}
}

func TestCancellationReasonFor(t *testing.T) {
	assert.Equal(t,
		"Cancelled by client: schedule conflict",
		CancellationReasonFor(models.RoleClient, "schedule conflict"),
	)
	assert.Equal(t,
		"Cancelled by provider: No reason provided",
		CancellationReasonFor(models.RoleProvider, ""),
	)
}

func TestCancel(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	ap := &models.Appointment{
		Status:   string(StatusConfirmed),
		Datetime: now.Add(48 * time.Hour),
	}

	assert.NoError(t, Cancel(ap, models.RoleClient, "moving", now))
	assert.Equal(t, string(StatusCancelled), ap.Status)
	assert.Equal(t, "Cancelled by client: moving", ap.CancellationReason)

	// Cancelled is terminal.
	err := Cancel(ap, models.RoleClient, "again", now)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusPending, StatusPending, true},
	}

	for _, tc := range cases {
		err := CanTransition(tc.from, tc.to)
		if tc.ok {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			assert.Error(t, err, "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestConfirm(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusPending)}
	assert.NoError(t, Confirm(ap))
	assert.Equal(t, string(StatusConfirmed), ap.Status)

	ap.Status = string(StatusCancelled)
	assert.Error(t, Confirm(ap))
}

func TestIsParticipant(t *testing.T) {
	ap := &models.Appointment{ClientID: 7, ProviderID: 9}

	assert.True(t, IsParticipant(ap, 7, models.RoleClient))
	assert.True(t, IsParticipant(ap, 9, models.RoleProvider))

	assert.False(t, IsParticipant(ap, 9, models.RoleClient), "ids are role-scoped")
	assert.False(t, IsParticipant(ap, 7, models.RoleProvider))
	assert.False(t, IsParticipant(ap, 8, models.RoleClient))
}
