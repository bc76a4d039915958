package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/talkthroughit/therapy-api/internal/domain/appointment"
	"github.com/talkthroughit/therapy-api/internal/domain/availability"
	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Parties
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClient(
	ctx context.Context,
	id uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *AppointmentGormRepository) GetProvider(
	ctx context.Context,
	id uint,
) (*models.Provider, error) {

	var provider models.Provider
	if err := r.db.WithContext(ctx).First(&provider, id).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

// CreateBooked creates the appointment and reserves the matching slot in
// one transaction. The availability row is locked so two concurrent
// bookings of the same slot serialize; the loser sees it booked.
func (r *AppointmentGormRepository) CreateBooked(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := overlapCheck(tx, ap); err != nil {
			return err
		}
		if err := reserveSlotTx(tx, ap.ProviderID, ap.Datetime); err != nil {
			return err
		}
		return tx.Create(ap).Error
	})
}

// Rebook moves an existing appointment: re-checks overlap at the new
// interval (ignoring the appointment itself), swaps the reserved slot and
// saves, all under the same transaction.
func (r *AppointmentGormRepository) Rebook(
	ctx context.Context,
	ap *models.Appointment,
	previous time.Time,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := overlapCheck(tx, ap); err != nil {
			return err
		}
		if err := releaseSlotTx(tx, ap.ProviderID, previous); err != nil {
			return err
		}
		if err := reserveSlotTx(tx, ap.ProviderID, ap.Datetime); err != nil {
			return err
		}
		return tx.Save(ap).Error
	})
}

// overlapCheck rejects the appointment when another active appointment of
// the same provider intersects its interval.
func overlapCheck(tx *gorm.DB, ap *models.Appointment) error {
	var conflicts int64
	if err := tx.
		Model(&models.Appointment{}).
		Where(
			"provider_id = ? AND id <> ? AND status <> 'cancelled' AND datetime < ? AND datetime + make_interval(mins => duration_minutes) > ?",
			ap.ProviderID, ap.ID, ap.EndTime(), ap.Datetime,
		).
		Count(&conflicts).Error; err != nil {
		return err
	}
	if conflicts > 0 {
		return httperr.ErrBusinessMsg("time_conflict", "Provider already has an appointment in that interval")
	}
	return nil
}

// reserveSlotTx locks the availability day covering at and marks the slot
// starting then as booked. No published day or no matching slot is fine:
// providers may book outside their published hours.
func reserveSlotTx(tx *gorm.DB, providerID uint, at time.Time) error {
	weekday := availability.WeekdayName(at)
	startHM := at.Format("15:04")

	var day models.AvailabilityDay
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("provider_id = ? AND day_of_week = ?", providerID, weekday).
		First(&day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	reserved, conflict := reserveSlot(&day, startHM)
	if conflict {
		return httperr.ErrBusinessMsg("time_conflict", "That time slot is already booked")
	}
	if reserved {
		return tx.Save(&day).Error
	}
	return nil
}

// reserveSlot marks the slot starting at startHM booked. Returns
// (reserved, conflict); both false when no slot covers that start time.
func reserveSlot(day *models.AvailabilityDay, startHM string) (bool, bool) {
	if !day.IsAvailable {
		return false, false
	}
	for i := range day.TimeSlots {
		if day.TimeSlots[i].StartTime != startHM {
			continue
		}
		if day.TimeSlots[i].IsBooked {
			return false, true
		}
		day.TimeSlots[i].IsBooked = true
		return true, false
	}
	return false, false
}

// ReleaseSlot undoes the reservation after a cancellation.
func (r *AppointmentGormRepository) ReleaseSlot(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return releaseSlotTx(tx, ap.ProviderID, ap.Datetime)
	})
}

// releaseSlotTx frees the slot starting at at, if one was reserved.
func releaseSlotTx(tx *gorm.DB, providerID uint, at time.Time) error {
	weekday := availability.WeekdayName(at)
	startHM := at.Format("15:04")

	var day models.AvailabilityDay
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("provider_id = ? AND day_of_week = ?", providerID, weekday).
		First(&day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	changed := false
	for i := range day.TimeSlots {
		if day.TimeSlots[i].StartTime == startHM && day.TimeSlots[i].IsBooked {
			day.TimeSlots[i].IsBooked = false
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return tx.Save(&day).Error
}

// --------------------------------------------------
// Appointment (read / state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Provider").
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) Update(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) ListUpcoming(
	ctx context.Context,
	userID uint,
	role string,
	now time.Time,
) ([]models.Appointment, error) {

	owner := "client_id"
	if role == models.RoleProvider {
		owner = "provider_id"
	}

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Provider").
		Where(owner+" = ? AND status <> 'cancelled' AND datetime >= ?", userID, now).
		Order("datetime ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *AppointmentGormRepository) ListForProvider(
	ctx context.Context,
	providerID uint,
	f domain.ProviderListFilter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("provider_id = ?", providerID)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	} else {
		q = q.Where("status <> 'cancelled'")
	}

	ascending := false
	if f.StartDate != nil || f.EndDate != nil {
		// An explicit range overrides the timeframe shorthand.
		if f.StartDate != nil {
			q = q.Where("datetime >= ?", *f.StartDate)
		}
		if f.EndDate != nil {
			q = q.Where("datetime <= ?", *f.EndDate)
		}
	} else {
		switch f.Timeframe {
		case domain.TimeframeUpcoming:
			q = q.Where("datetime >= ?", f.Now)
			ascending = true
		case domain.TimeframePast:
			q = q.Where("datetime < ?", f.Now)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "datetime DESC"
	if ascending {
		order = "datetime ASC"
	}

	var aps []models.Appointment
	if err := q.
		Preload("Client").
		Preload("Provider").
		Order(order).
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&aps).Error; err != nil {
		return nil, 0, err
	}
	return aps, total, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
