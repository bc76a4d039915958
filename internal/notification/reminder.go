package notification

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/talkthroughit/therapy-api/internal/models"
	"github.com/talkthroughit/therapy-api/internal/monitoring"
)

const reminderIndexKey = "appointment:reminders"

// ReminderScheduler keeps reminder due-times in a redis sorted set scored
// by unix time, so pending reminders survive a process restart. A polling
// worker pops due entries and publishes reminder notices.
type ReminderScheduler struct {
	rdb        *redis.Client
	db         *gorm.DB
	dispatcher *Dispatcher
}

func NewReminderScheduler(rdb *redis.Client, db *gorm.DB, dispatcher *Dispatcher) *ReminderScheduler {
	return &ReminderScheduler{
		rdb:        rdb,
		db:         db,
		dispatcher: dispatcher,
	}
}

// Schedule indexes the appointment under its reminder due-time. Calling it
// again for the same appointment just moves the score.
func (s *ReminderScheduler) Schedule(ctx context.Context, ap *models.Appointment) {
	hours := ap.ReminderHoursBefore
	if hours <= 0 {
		hours = 24
	}
	due := ap.Datetime.Add(-time.Duration(hours) * time.Hour)

	err := s.rdb.ZAdd(ctx, reminderIndexKey, redis.Z{
		Score:  float64(due.Unix()),
		Member: strconv.FormatUint(uint64(ap.ID), 10),
	}).Err()
	if err != nil {
		log.Error().Err(err).Uint("appointment_id", ap.ID).Msg("failed to schedule reminder")
	}
}

func (s *ReminderScheduler) Cancel(ctx context.Context, appointmentID uint) {
	err := s.rdb.ZRem(ctx, reminderIndexKey, strconv.FormatUint(uint64(appointmentID), 10)).Err()
	if err != nil {
		log.Error().Err(err).Uint("appointment_id", appointmentID).Msg("failed to cancel reminder")
	}
}

// Run polls for due reminders until the context ends.
func (s *ReminderScheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fireDue(ctx)
		}
	}
}

func (s *ReminderScheduler) fireDue(ctx context.Context) {
	now := strconv.FormatInt(time.Now().Unix(), 10)

	members, err := s.rdb.ZRangeByScore(ctx, reminderIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		log.Error().Err(err).Msg("reminder poll failed")
		return
	}

	for _, member := range members {
		// Claim before sending so two workers never double-fire.
		removed, err := s.rdb.ZRem(ctx, reminderIndexKey, member).Result()
		if err != nil || removed == 0 {
			continue
		}

		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}
		s.fire(ctx, uint(id))
	}
}

func (s *ReminderScheduler) fire(ctx context.Context, appointmentID uint) {
	var ap models.Appointment
	if err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Provider").
		First(&ap, appointmentID).Error; err != nil {
		log.Error().Err(err).Uint("appointment_id", appointmentID).Msg("reminder target not found")
		return
	}

	if ap.Status == "cancelled" || ap.ReminderSent {
		return
	}

	s.dispatcher.Dispatch(Event{Kind: KindReminder, Appointment: &ap})
	monitoring.RemindersSent.Inc()

	if err := s.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", ap.ID).
		Update("reminder_sent", true).Error; err != nil {
		log.Error().Err(err).Uint("appointment_id", ap.ID).Msg("failed to mark reminder sent")
	}
}
