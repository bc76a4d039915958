package models

import "time"

type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	FirstName string `gorm:"size:100;not null" json:"firstName"`
	LastName  string `gorm:"size:100;not null" json:"lastName"`

	Location          string `gorm:"size:255" json:"location"`
	InsuranceProvider string `gorm:"size:100" json:"insuranceProvider"`
	TherapyGoals      string `gorm:"type:text" json:"therapyGoals"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) DisplayName() string {
	return c.FirstName + " " + c.LastName
}
