package booking

import (
	"context"

	"github.com/BruksfildServices01/auralynk/internal/models"
)

type Repository interface {
	// -------- Users --------
	GetUser(
		ctx context.Context,
		id string,
	) (*models.User, error)

	GetUsersByIDs(
		ctx context.Context,
		ids []string,
	) (map[string]models.User, error)

	ListReadersWithSlots(
		ctx context.Context,
	) ([]models.User, error)

	// -------- Booking (create / read) --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBooking(
		ctx context.Context,
		id string,
	) (*models.Booking, error)

	ListBookingsForReader(
		ctx context.Context,
		readerID string,
		statuses ...Status,
	) ([]models.Booking, error)

	ListBookingsForReaders(
		ctx context.Context,
		readerIDs []string,
	) ([]models.Booking, error)

	ListBookingsForClient(
		ctx context.Context,
		clientID string,
		statuses ...Status,
	) ([]models.Booking, error)

	CountBookingsForReader(
		ctx context.Context,
		readerID string,
		status Status,
	) (int64, error)

	// -------- Booking (state change) --------

	// AcceptBooking persists an accepted booking and removes its slot from
	// the reader in one transaction.
	AcceptBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	RejectBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// DeleteBooking removes the booking and restores its slot to the reader
	// in one transaction. Restoring is idempotent.
	DeleteBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// SetRoomURLIfEmpty stores roomURL unless the booking already has one,
	// and returns the URL the booking ends up with.
	SetRoomURLIfEmpty(
		ctx context.Context,
		bookingID string,
		roomURL string,
	) (string, error)
}
