package notification

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/talkthroughit/therapy-api/internal/models"
)

// LogSender is the development fallback when no broker is reachable:
// notices land in the log instead of the topic.
type LogSender struct{}

func (LogSender) SendAppointmentNotice(_ context.Context, ap *models.Appointment, kind string) error {
	log.Info().
		Str("kind", kind).
		Uint("appointment_id", ap.ID).
		Uint("client_id", ap.ClientID).
		Uint("provider_id", ap.ProviderID).
		Time("datetime", ap.Datetime).
		Msg("appointment notice")
	return nil
}
