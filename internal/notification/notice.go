package notification

import "github.com/talkthroughit/therapy-api/internal/models"

// Notice kinds an appointment can emit over its lifecycle.
const (
	KindCreated   = "created"
	KindUpdated   = "updated"
	KindCancelled = "cancelled"
	KindReminder  = "reminder"
)

type Event struct {
	Kind        string
	Appointment *models.Appointment
}
