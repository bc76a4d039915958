package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/talkthroughit/therapy-api/internal/models"
)

type recordingSender struct {
	events chan Event
}

func (s *recordingSender) SendAppointmentNotice(_ context.Context, ap *models.Appointment, kind string) error {
	s.events <- Event{Kind: kind, Appointment: ap}
	return nil
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	sender := &recordingSender{events: make(chan Event, 4)}
	d := NewDispatcher(sender)

	ap := &models.Appointment{ID: 3}
	d.Dispatch(Event{Kind: KindCreated, Appointment: ap})
	d.Dispatch(Event{Kind: KindCancelled, Appointment: ap})

	first := waitEvent(t, sender.events)
	second := waitEvent(t, sender.events)

	assert.Equal(t, KindCreated, first.Kind)
	assert.Equal(t, KindCancelled, second.Kind)
	assert.Equal(t, uint(3), first.Appointment.ID)
}

func TestDispatcher_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	// A sender that never drains forces the queue to fill.
	blocked := &recordingSender{events: make(chan Event)}
	d := NewDispatcher(blocked)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ap := &models.Appointment{ID: 1}
		for i := 0; i < 500; i++ {
			d.Dispatch(Event{Kind: KindCreated, Appointment: ap})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
}

func waitEvent(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}
