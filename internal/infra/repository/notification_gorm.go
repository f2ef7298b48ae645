package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/auralynk/internal/models"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

func (r *NotificationGormRepository) AppendNotification(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationGormRepository) ListNotifications(
	ctx context.Context,
	userID string,
	limit int,
) ([]models.Notification, error) {

	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(`"timestamp" DESC`)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []models.Notification
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *NotificationGormRepository) GetUsersByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	return getUsersByIDs(ctx, r.db, ids)
}
