package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint   `gorm:"not null" json:"clientId"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ProviderID uint     `gorm:"not null" json:"providerId"`
	Provider   Provider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"provider"`

	Datetime        time.Time `gorm:"not null" json:"datetime"`
	DurationMinutes int       `gorm:"default:60" json:"durationMinutes"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	MeetingType string `gorm:"size:20;not null" json:"meetingType"`
	MeetingLink string `gorm:"size:512" json:"meetingLink,omitempty"`
	Location    string `gorm:"size:255" json:"location,omitempty"`

	Notes              string `gorm:"size:255" json:"notes"`
	CancellationReason string `gorm:"size:255" json:"cancellationReason,omitempty"`

	ReminderHoursBefore int  `gorm:"default:24" json:"reminderHoursBefore"`
	ReminderSent        bool `gorm:"default:false" json:"reminderSent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EndTime is the exclusive upper bound of the appointment interval.
func (a *Appointment) EndTime() time.Time {
	return a.Datetime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}
