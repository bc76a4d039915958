package appointment

import (
	"time"

	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/models"
)

// CancellationNotice is the minimum lead time before an appointment's start
// at which cancellation is still allowed. Exactly 24h out still passes.
const CancellationNotice = 24 * time.Hour

// CanCancel gates any transition into cancelled. A violation is a business
// rule rejection, never a system fault.
func CanCancel(datetime, now time.Time) error {
	if datetime.Sub(now) < CancellationNotice {
		return httperr.ErrBusinessMsg(
			"cancellation_notice",
			"Appointments require at least 24 hours notice to cancel",
		)
	}
	return nil
}

// CancellationReasonFor records who cancelled and why. An empty reason gets
// a placeholder rather than an empty column.
func CancellationReasonFor(role, reason string) string {
	if reason == "" {
		reason = "No reason provided"
	}
	return "Cancelled by " + role + ": " + reason
}

// Cancel applies the full cancellation: state gate, notice window, reason
// attribution.
func Cancel(ap *models.Appointment, role, reason string, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusCancelled); err != nil {
		return err
	}
	if err := CanCancel(ap.Datetime, now); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancellationReason = CancellationReasonFor(role, reason)
	return nil
}

// Confirm moves a pending appointment to confirmed.
func Confirm(ap *models.Appointment) error {
	if err := CanTransition(Status(ap.Status), StatusConfirmed); err != nil {
		return err
	}
	ap.Status = string(StatusConfirmed)
	return nil
}

// IsParticipant reports whether the given user is on the record.
func IsParticipant(ap *models.Appointment, userID uint, role string) bool {
	if role == models.RoleClient {
		return ap.ClientID == userID
	}
	return ap.ProviderID == userID
}
