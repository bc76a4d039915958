package models

import "time"

type Provider struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	FirstName string `gorm:"size:100;not null" json:"firstName"`
	LastName  string `gorm:"size:100;not null" json:"lastName"`

	Credentials string `gorm:"size:100" json:"credentials"`
	Bio         string `gorm:"type:text" json:"bio"`
	Location    string `gorm:"size:255" json:"location"`

	InsuranceAccepted []string `gorm:"serializer:json;type:text" json:"insuranceAccepted"`
	Languages         []string `gorm:"serializer:json;type:text" json:"languages"`

	Specialties []Specialty `gorm:"many2many:provider_specialties;" json:"specialties"`

	YearsOfExperience int    `json:"yearsOfExperience"`
	LicensureState    string `gorm:"size:50" json:"licensureState"`
	LicenseNumber     string `gorm:"size:50" json:"licenseNumber"`

	Telehealth bool `gorm:"default:true" json:"telehealth"`
	InPerson   bool `gorm:"default:false" json:"inPerson"`

	AcceptingClients bool `gorm:"default:true" json:"acceptingClients"`

	ProfileImageURL string `gorm:"size:512" json:"profileImageUrl"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName is what counterparties see in conversations and bookings.
func (p *Provider) DisplayName() string {
	return p.FirstName + " " + p.LastName
}
