package models

import "time"

const (
	ParticipantClient   = "Client"
	ParticipantProvider = "Provider"
)

// Message is immutable after creation except for the Read flag.
type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SenderID   uint   `gorm:"not null;index" json:"senderId"`
	SenderType string `gorm:"size:10;not null" json:"senderType"`

	ReceiverID   uint   `gorm:"not null;index" json:"receiverId"`
	ReceiverType string `gorm:"size:10;not null" json:"receiverType"`

	Content string `gorm:"type:text;not null" json:"content"`
	Read    bool   `gorm:"default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}
