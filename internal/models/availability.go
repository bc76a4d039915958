package models

import "time"

// TimeSlot is a bookable interval within an availability day. Times are
// 24-hour "HH:MM" clock strings local to the provider.
type TimeSlot struct {
	StartTime             string   `json:"startTime"`
	EndTime               string   `json:"endTime"`
	IsBooked              bool     `json:"isBooked"`
	AvailableMeetingTypes []string `json:"availableMeetingTypes"`
}

// AvailabilityDay holds a provider's slots for one weekday. At most one row
// exists per (provider, weekday) pair.
type AvailabilityDay struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProviderID uint     `gorm:"uniqueIndex:idx_provider_day;not null" json:"providerId"`
	Provider   Provider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	DayOfWeek string `gorm:"size:10;uniqueIndex:idx_provider_day;not null" json:"dayOfWeek"`

	TimeSlots []TimeSlot `gorm:"serializer:json;type:text" json:"timeSlots"`

	IsAvailable bool `gorm:"default:true" json:"isAvailable"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FreeSlots returns the unbooked slots, optionally narrowed to those offering
// the given meeting type.
func (d *AvailabilityDay) FreeSlots(meetingType string) []TimeSlot {
	slots := make([]TimeSlot, 0, len(d.TimeSlots))
	for _, s := range d.TimeSlots {
		if s.IsBooked {
			continue
		}
		if meetingType != "" && !s.Offers(meetingType) {
			continue
		}
		slots = append(slots, s)
	}
	return slots
}

func (s *TimeSlot) Offers(meetingType string) bool {
	for _, t := range s.AvailableMeetingTypes {
		if t == meetingType {
			return true
		}
	}
	return false
}
