package repository

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/auralynk/internal/models"
)

type ProfileGormRepository struct {
	db *gorm.DB
}

func NewProfileGormRepository(db *gorm.DB) *ProfileGormRepository {
	return &ProfileGormRepository{db: db}
}

func (r *ProfileGormRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	return getUser(ctx, r.db, id)
}

func (r *ProfileGormRepository) CreateUserIfMissing(ctx context.Context, u *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(u).Error; err != nil {
		return nil, err
	}
	return getUser(ctx, r.db, u.ID)
}

func (r *ProfileGormRepository) UpdateProfile(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProfileGormRepository) SetSlots(ctx context.Context, id string, slots []string) error {
	return r.UpdateProfile(ctx, id, map[string]any{
		"available_slots": pq.StringArray(slots),
	})
}

func (r *ProfileGormRepository) SetAvatarURL(ctx context.Context, id string, url string) error {
	return r.UpdateProfile(ctx, id, map[string]any{
		"avatar_url": url,
	})
}
