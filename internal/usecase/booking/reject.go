package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/auralynk/internal/domain/booking"
	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/infra/events"
	"github.com/BruksfildServices01/auralynk/internal/models"
)

type RejectBooking struct {
	repo   domain.Repository
	fanout *Fanout
	now    func() time.Time
}

func NewRejectBooking(
	repo domain.Repository,
	fanout *Fanout,
) *RejectBooking {
	return &RejectBooking{
		repo:   repo,
		fanout: fanout,
		now:    time.Now,
	}
}

// Execute rejects a pending booking. The reader's slot list is not touched.
func (uc *RejectBooking) Execute(
	ctx context.Context,
	readerID string,
	bookingID string,
) (*models.Booking, error) {

	ctx, span := tracer.Start(ctx, "booking.Reject")
	defer span.End()

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking_not_found")
	}
	if b.ReaderID != readerID {
		return nil, httperr.ErrBusiness("forbidden")
	}

	if err := domain.Reject(b, uc.now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.RejectBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.fanout.BookingChanged(ctx, events.RKBookingRejected, b, readerID)

	return b, nil
}
