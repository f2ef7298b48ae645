package booking

import (
	"context"

	domain "github.com/BruksfildServices01/auralynk/internal/domain/booking"
	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/infra/events"
)

type CancelBooking struct {
	repo   domain.Repository
	fanout *Fanout
}

func NewCancelBooking(
	repo domain.Repository,
	fanout *Fanout,
) *CancelBooking {
	return &CancelBooking{
		repo:   repo,
		fanout: fanout,
	}
}

// Execute deletes a booking in any state and puts its slot back on the
// reader's list if it is not already there.
func (uc *CancelBooking) Execute(
	ctx context.Context,
	actorID string,
	bookingID string,
) error {

	ctx, span := tracer.Start(ctx, "booking.Cancel")
	defer span.End()

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return notFound(err, "booking_not_found")
	}
	if !b.IsParticipant(actorID) {
		return httperr.ErrBusiness("forbidden")
	}

	if err := uc.repo.DeleteBooking(ctx, b); err != nil {
		return notFound(err, "booking_not_found")
	}

	uc.fanout.BookingChanged(ctx, events.RKBookingCancelled, b, actorID)

	return nil
}
