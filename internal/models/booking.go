package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Booking struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	ClientID string `gorm:"size:128;not null;index" json:"clientId"`
	ReaderID string `gorm:"size:128;not null;index" json:"readerId"`

	SelectedTime string `gorm:"size:32;not null" json:"selectedTime"`
	Status       string `gorm:"size:20;default:'pending';index" json:"status"`
	RoomURL      string `gorm:"size:512" json:"roomUrl,omitempty"`

	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`
	RejectedAt *time.Time `json:"rejectedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// IsParticipant reports whether userID is the client or the reader.
func (b *Booking) IsParticipant(userID string) bool {
	return userID != "" && (b.ClientID == userID || b.ReaderID == userID)
}

// Counterpart returns the other side of the booking for userID.
func (b *Booking) Counterpart(userID string) string {
	if userID == b.ClientID {
		return b.ReaderID
	}
	return b.ClientID
}
