package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	RoleClient = "client"
	RoleReader = "reader"
)

type User struct {
	ID   string `gorm:"primaryKey;size:128" json:"id"`
	Role string `gorm:"size:20;default:'client';index" json:"role"`

	DisplayName string `gorm:"size:100" json:"displayName"`
	Bio         string `gorm:"type:text" json:"bio"`
	Email       string `gorm:"size:255" json:"email"`
	AvatarURL   string `gorm:"size:512" json:"avatarUrl,omitempty"`

	// Canonical RFC3339 UTC instants, in the order the reader declared them.
	AvailableSlots pq.StringArray `gorm:"type:text[];default:'{}'" json:"availableSlots"`
	Services       pq.StringArray `gorm:"type:text[];default:'{}'" json:"services"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsReader() bool {
	return u.Role == RoleReader
}

// NameOrID is what listings show for a participant.
func (u *User) NameOrID() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.ID
}
