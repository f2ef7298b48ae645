package events

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	RKBookingCreated   = "booking.created"
	RKBookingAccepted  = "booking.accepted"
	RKBookingRejected  = "booking.rejected"
	RKBookingCancelled = "booking.cancelled"
)

// BookingKeys are the routing keys the notification consumer binds.
var BookingKeys = []string{
	RKBookingCreated,
	RKBookingAccepted,
	RKBookingRejected,
	RKBookingCancelled,
}

// BookingEvent carries enough to render a notification without a
// booking lookup (the booking may already be deleted).
type BookingEvent struct {
	BookingID    string `json:"bookingId"`
	ClientID     string `json:"clientId"`
	ReaderID     string `json:"readerId"`
	SelectedTime string `json:"selectedTime"`
	Status       string `json:"status"`
	ActorID      string `json:"actorId"`
}

type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
}

type Handler interface {
	Handle(ctx context.Context, key string, body []byte) error
}

type HandlerFunc func(ctx context.Context, key string, body []byte) error

func (f HandlerFunc) Handle(ctx context.Context, key string, body []byte) error {
	return f(ctx, key, body)
}

func Decode[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
