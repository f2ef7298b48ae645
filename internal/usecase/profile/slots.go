package profile

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/auralynk/internal/domain/booking"
	domain "github.com/BruksfildServices01/auralynk/internal/domain/profile"
	"github.com/BruksfildServices01/auralynk/internal/httperr"
)

type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, readerIDs ...string)
}

// SetSlots replaces a reader's declared slots.
type SetSlots struct {
	repo  domain.Repository
	cache AvailabilityInvalidator
}

func NewSetSlots(repo domain.Repository, cache AvailabilityInvalidator) *SetSlots {
	return &SetSlots{
		repo:  repo,
		cache: cache,
	}
}

func (uc *SetSlots) Execute(
	ctx context.Context,
	userID string,
	slots []string,
) ([]string, error) {

	ctx, span := tracer.Start(ctx, "profile.SetSlots")
	defer span.End()

	canonical, err := booking.CanonicalAll(slots)
	if err != nil {
		return nil, err
	}

	u, err := uc.repo.GetUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("user_not_found")
	}
	if err != nil {
		return nil, err
	}
	if !u.IsReader() {
		return nil, httperr.ErrBusiness("not_a_reader")
	}

	if err := uc.repo.SetSlots(ctx, userID, canonical); err != nil {
		return nil, fmt.Errorf("set slots %s: %w", userID, err)
	}
	uc.cache.Invalidate(ctx, userID)

	return canonical, nil
}
