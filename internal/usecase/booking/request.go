package booking

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/auralynk/internal/domain/booking"
	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/infra/events"
	"github.com/BruksfildServices01/auralynk/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type RequestBookingInput struct {
	ClientID     string
	ReaderID     string
	SelectedTime string
}

// ======================================================
// USE CASE
// ======================================================

type RequestBooking struct {
	repo         domain.Repository
	availability *GetAvailability
	fanout       *Fanout
	now          func() time.Time
}

func NewRequestBooking(
	repo domain.Repository,
	availability *GetAvailability,
	fanout *Fanout,
) *RequestBooking {
	return &RequestBooking{
		repo:         repo,
		availability: availability,
		fanout:       fanout,
		now:          time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *RequestBooking) Execute(
	ctx context.Context,
	in RequestBookingInput,
) (*models.Booking, error) {

	ctx, span := tracer.Start(ctx, "booking.Request")
	defer span.End()

	// --------------------------------------------------
	// 1. Slot, checked before touching any store
	// --------------------------------------------------
	slot, err := domain.Canonical(in.SelectedTime)
	if err != nil {
		return nil, err
	}
	at, _ := domain.ParseSlot(slot)
	if !at.After(uc.now()) {
		return nil, httperr.ErrBusiness("slot_in_past")
	}

	if in.ReaderID == "" {
		return nil, httperr.ErrBusiness("reader_not_found")
	}
	if in.ClientID == in.ReaderID {
		return nil, httperr.ErrBusiness("cannot_book_self")
	}

	// --------------------------------------------------
	// 2. Reader
	// --------------------------------------------------
	version := uc.availability.cache.Version(ctx, in.ReaderID)
	reader, err := uc.repo.GetUser(ctx, in.ReaderID)
	if err != nil {
		return nil, notFound(err, "reader_not_found")
	}
	if !reader.IsReader() {
		return nil, httperr.ErrBusiness("reader_not_found")
	}

	// --------------------------------------------------
	// 3. Slot must still be offered
	// --------------------------------------------------
	free, err := uc.availability.forReader(ctx, reader, version)
	if err != nil {
		return nil, err
	}
	if !domain.Contains(free, slot) {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	// --------------------------------------------------
	// 4. Create
	// --------------------------------------------------
	b := domain.New(in.ClientID, reader.ID, slot)
	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	uc.fanout.BookingChanged(ctx, events.RKBookingCreated, b, in.ClientID)

	return b, nil
}
