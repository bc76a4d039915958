package notification

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/talkthroughit/therapy-api/internal/models"
	"github.com/talkthroughit/therapy-api/internal/monitoring"
)

// Sender delivers one appointment notice. Delivery problems are the
// sender's to report, never the caller's.
type Sender interface {
	SendAppointmentNotice(ctx context.Context, ap *models.Appointment, kind string) error
}

// Dispatcher decouples request handling from notice delivery: events go
// through a buffered queue drained by one worker goroutine. A full queue
// drops the event — notification must never break the API.
type Dispatcher struct {
	sender Sender
	queue  chan Event
}

func NewDispatcher(sender Sender) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.sender.SendAppointmentNotice(context.Background(), ev.Appointment, ev.Kind); err != nil {
			log.Error().
				Err(err).
				Str("kind", ev.Kind).
				Uint("appointment_id", ev.Appointment.ID).
				Msg("appointment notice failed")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		monitoring.NoticesDropped.Inc()
		log.Warn().
			Str("kind", ev.Kind).
			Msg("notice queue full, dropping event")
	}
}
