package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/auralynk/internal/domain/booking"
	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *BookingGormRepository) GetUser(
	ctx context.Context,
	id string,
) (*models.User, error) {
	return getUser(ctx, r.db, id)
}

func (r *BookingGormRepository) GetUsersByIDs(
	ctx context.Context,
	ids []string,
) (map[string]models.User, error) {
	return getUsersByIDs(ctx, r.db, ids)
}

func (r *BookingGormRepository) ListReadersWithSlots(
	ctx context.Context,
) ([]models.User, error) {

	var readers []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ? AND cardinality(available_slots) > 0", models.RoleReader).
		Order("display_name ASC, id ASC").
		Find(&readers).Error; err != nil {
		return nil, err
	}
	return readers, nil
}

// --------------------------------------------------
// Booking (create / read)
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) ListBookingsForReader(
	ctx context.Context,
	readerID string,
	statuses ...domain.Status,
) ([]models.Booking, error) {
	return r.list(ctx, "reader_id = ?", readerID, statuses)
}

func (r *BookingGormRepository) ListBookingsForClient(
	ctx context.Context,
	clientID string,
	statuses ...domain.Status,
) ([]models.Booking, error) {
	return r.list(ctx, "client_id = ?", clientID, statuses)
}

func (r *BookingGormRepository) ListBookingsForReaders(
	ctx context.Context,
	readerIDs []string,
) ([]models.Booking, error) {

	if len(readerIDs) == 0 {
		return []models.Booking{}, nil
	}

	var out []models.Booking
	if err := r.db.WithContext(ctx).
		Where("reader_id IN ?", readerIDs).
		Order("selected_time ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingGormRepository) CountBookingsForReader(
	ctx context.Context,
	readerID string,
	status domain.Status,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("reader_id = ? AND status = ?", readerID, string(status)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// canonical slot strings sort chronologically
func (r *BookingGormRepository) list(
	ctx context.Context,
	where string,
	id string,
	statuses []domain.Status,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).Where(where, id)
	if len(statuses) > 0 {
		in := make([]string, 0, len(statuses))
		for _, s := range statuses {
			in = append(in, string(s))
		}
		q = q.Where("status IN ?", in)
	}

	var out []models.Booking
	if err := q.Order("selected_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Booking (state change)
// --------------------------------------------------

func (r *BookingGormRepository) AcceptBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var current models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "id = ?", b.ID).Error; err != nil {
			return err
		}

		if domain.Status(current.Status) != domain.StatusPending {
			return httperr.ErrBusiness("invalid_state")
		}

		if err := tx.
			Model(&models.Booking{}).
			Where("id = ?", b.ID).
			Updates(map[string]any{
				"status":      b.Status,
				"accepted_at": b.AcceptedAt,
			}).Error; err != nil {
			return err
		}

		return tx.Exec(
			`UPDATE users
			 SET available_slots = array_remove(available_slots, ?::text), updated_at = NOW()
			 WHERE id = ?`,
			b.SelectedTime, b.ReaderID,
		).Error
	})
}

func (r *BookingGormRepository) RejectBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", b.ID, string(domain.StatusPending)).
		Updates(map[string]any{
			"status":      b.Status,
			"rejected_at": b.RejectedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func (r *BookingGormRepository) DeleteBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var current models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "id = ?", b.ID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Booking{}, "id = ?", current.ID).Error; err != nil {
			return err
		}

		return tx.Exec(
			`UPDATE users
			 SET available_slots = array_append(available_slots, ?::text), updated_at = NOW()
			 WHERE id = ? AND NOT (?::text = ANY(available_slots))`,
			current.SelectedTime, current.ReaderID, current.SelectedTime,
		).Error
	})
}

func (r *BookingGormRepository) SetRoomURLIfEmpty(
	ctx context.Context,
	bookingID string,
	roomURL string,
) (string, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND (room_url IS NULL OR room_url = '')", bookingID).
		Update("room_url", roomURL)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 1 {
		return roomURL, nil
	}

	b, err := r.GetBooking(ctx, bookingID)
	if err != nil {
		return "", err
	}
	return b.RoomURL, nil
}
