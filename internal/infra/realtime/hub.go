package realtime

import (
	"context"
	"time"
)

// Change is pushed to every participant of a mutated booking.
type Change struct {
	Type      string    `json:"type"`
	BookingID string    `json:"bookingId"`
	ReaderID  string    `json:"readerId"`
	ClientID  string    `json:"clientId"`
	Status    string    `json:"status,omitempty"`
	At        time.Time `json:"at"`
}

// Hub fans changes out to per-user subscribers.
//
// Subscribe returns a channel and a cancel handle. After cancel returns no
// further value is delivered and the channel is closed. Cancelling ctx has
// the same effect.
type Hub interface {
	Publish(ctx context.Context, userID string, ch Change) error
	Subscribe(ctx context.Context, userID string) (<-chan Change, func(), error)
}

const subscriberBuffer = 16
