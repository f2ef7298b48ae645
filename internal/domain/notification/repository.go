package notification

import (
	"context"

	"github.com/BruksfildServices01/auralynk/internal/models"
)

type Repository interface {
	AppendNotification(ctx context.Context, n *models.Notification) error

	// ListNotifications returns the newest notifications first.
	ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error)

	GetUsersByIDs(ctx context.Context, ids []string) (map[string]models.User, error)
}
