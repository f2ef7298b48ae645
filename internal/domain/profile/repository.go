package profile

import (
	"context"

	"github.com/BruksfildServices01/auralynk/internal/models"
)

type Repository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)

	// CreateUserIfMissing inserts u unless a user with the same id exists,
	// then returns the stored row.
	CreateUserIfMissing(ctx context.Context, u *models.User) (*models.User, error)

	// UpdateProfile merges the given columns into the user row.
	UpdateProfile(ctx context.Context, id string, fields map[string]any) error

	SetSlots(ctx context.Context, id string, slots []string) error

	SetAvatarURL(ctx context.Context, id string, url string) error
}
