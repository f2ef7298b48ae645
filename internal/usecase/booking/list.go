package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/auralynk/internal/domain/booking"
	"github.com/BruksfildServices01/auralynk/internal/dto"
	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/models"
)

type View string

const (
	ViewPending  View = "pending"
	ViewUpcoming View = "upcoming"
)

// ======================================================
// LIST
// ======================================================

type ListBookings struct {
	repo domain.Repository
	now  func() time.Time
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{
		repo: repo,
		now:  time.Now,
	}
}

// Execute lists the caller's bookings for a dashboard view:
//   - pending: requests waiting on the reader, oldest slot first;
//   - upcoming: accepted sessions still ahead, on both sides. A reader
//     who booked another reader sees those sessions too.
func (uc *ListBookings) Execute(
	ctx context.Context,
	userID string,
	view View,
) ([]dto.BookingListDTO, error) {

	ctx, span := tracer.Start(ctx, "booking.List")
	defer span.End()

	var (
		list []models.Booking
		err  error
	)
	switch view {
	case ViewPending:
		isReader, rerr := uc.isReader(ctx, userID)
		if rerr != nil {
			return nil, rerr
		}
		if !isReader {
			return []dto.BookingListDTO{}, nil
		}
		list, err = uc.repo.ListBookingsForReader(ctx, userID, domain.StatusPending)

	case ViewUpcoming:
		list, err = uc.upcoming(ctx, userID)

	default:
		return nil, httperr.ErrBusiness("invalid_view")
	}
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].SelectedTime < list[j].SelectedTime
	})

	return uc.withNames(ctx, list)
}

// upcoming merges the sessions the user reads with the ones they booked.
func (uc *ListBookings) upcoming(ctx context.Context, userID string) ([]models.Booking, error) {
	asReader, err := uc.repo.ListBookingsForReader(ctx, userID, domain.StatusAccepted)
	if err != nil {
		return nil, err
	}
	asClient, err := uc.repo.ListBookingsForClient(ctx, userID, domain.StatusAccepted)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(asReader))
	merged := make([]models.Booking, 0, len(asReader)+len(asClient))
	for _, b := range append(asReader, asClient...) {
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}
		merged = append(merged, b)
	}
	return futureOnly(merged, uc.now()), nil
}

func (uc *ListBookings) isReader(ctx context.Context, userID string) (bool, error) {
	u, err := uc.repo.GetUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.IsReader(), nil
}

func (uc *ListBookings) withNames(
	ctx context.Context,
	list []models.Booking,
) ([]dto.BookingListDTO, error) {

	ids := make([]string, 0, len(list)*2)
	seen := map[string]struct{}{}
	for _, b := range list {
		for _, id := range []string{b.ClientID, b.ReaderID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	users, err := uc.repo.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve names: %w", err)
	}
	name := func(id string) string {
		if u, ok := users[id]; ok {
			return u.NameOrID()
		}
		return id
	}

	out := make([]dto.BookingListDTO, 0, len(list))
	for _, b := range list {
		out = append(out, dto.BookingListDTO{
			ID:           b.ID,
			ClientID:     b.ClientID,
			ReaderID:     b.ReaderID,
			ClientName:   name(b.ClientID),
			ReaderName:   name(b.ReaderID),
			SelectedTime: b.SelectedTime,
			Status:       b.Status,
			RoomURL:      b.RoomURL,
		})
	}
	return out, nil
}

func futureOnly(list []models.Booking, now time.Time) []models.Booking {
	out := list[:0:0]
	for _, b := range list {
		at, err := domain.ParseSlot(b.SelectedTime)
		if err != nil || !at.After(now) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// ======================================================
// PENDING COUNT
// ======================================================

type PendingCount struct {
	repo domain.Repository
}

func NewPendingCount(repo domain.Repository) *PendingCount {
	return &PendingCount{repo: repo}
}

func (uc *PendingCount) Execute(ctx context.Context, readerID string) (int64, error) {
	return uc.repo.CountBookingsForReader(ctx, readerID, domain.StatusPending)
}
