package notification

import (
	"context"

	domain "github.com/BruksfildServices01/auralynk/internal/domain/notification"
	"github.com/BruksfildServices01/auralynk/internal/models"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type ListNotifications struct {
	repo domain.Repository
}

func NewListNotifications(repo domain.Repository) *ListNotifications {
	return &ListNotifications{repo: repo}
}

// Execute returns the newest notifications first.
func (uc *ListNotifications) Execute(
	ctx context.Context,
	userID string,
	limit int,
) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return uc.repo.ListNotifications(ctx, userID, limit)
}
