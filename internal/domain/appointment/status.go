package appointment

import "github.com/talkthroughit/therapy-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// CanTransition enforces the lifecycle: pending → confirmed,
// pending|confirmed → cancelled. Cancelled is terminal.
func CanTransition(from, to Status) error {
	if from == to {
		return nil
	}
	switch {
	case from == StatusPending && to == StatusConfirmed:
		return nil
	case (from == StatusPending || from == StatusConfirmed) && to == StatusCancelled:
		return nil
	}
	return httperr.ErrBusinessMsg("invalid_state", "Appointment cannot move from "+string(from)+" to "+string(to))
}

func InitialStatus() Status {
	return StatusPending
}
