package booking

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/auralynk/internal/domain/booking"
	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/models"
)

// GetAvailability returns a reader's reconciled slots, reading through the
// availability cache.
type GetAvailability struct {
	repo   domain.Repository
	cache  AvailabilityCache
	policy domain.BlockPolicy
}

func NewGetAvailability(
	repo domain.Repository,
	cache AvailabilityCache,
	policy domain.BlockPolicy,
) *GetAvailability {
	return &GetAvailability{
		repo:   repo,
		cache:  cache,
		policy: policy,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	readerID string,
) ([]string, error) {

	ctx, span := tracer.Start(ctx, "booking.GetAvailability")
	defer span.End()

	if slots, ok := uc.cache.Get(ctx, readerID); ok {
		return slots, nil
	}
	version := uc.cache.Version(ctx, readerID)

	reader, err := uc.repo.GetUser(ctx, readerID)
	if err != nil {
		return nil, notFound(err, "reader_not_found")
	}
	if !reader.IsReader() {
		return nil, httperr.ErrBusiness("reader_not_found")
	}

	return uc.forReader(ctx, reader, version)
}

func (uc *GetAvailability) forReader(
	ctx context.Context,
	reader *models.User,
	version int64,
) ([]string, error) {

	bookings, err := uc.repo.ListBookingsForReader(ctx, reader.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for reader %s: %w", reader.ID, err)
	}

	slots := domain.Reconcile(reader.AvailableSlots, bookings, uc.policy)
	uc.cache.Set(ctx, reader.ID, version, slots)
	return slots, nil
}
