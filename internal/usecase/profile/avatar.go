package profile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/auralynk/internal/domain/profile"
	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/imaging"
)

type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type UploadAvatar struct {
	repo  domain.Repository
	store ObjectStore
}

// NewUploadAvatar accepts a nil store; uploads then fail with
// avatars_disabled.
func NewUploadAvatar(repo domain.Repository, store ObjectStore) *UploadAvatar {
	return &UploadAvatar{
		repo:  repo,
		store: store,
	}
}

func (uc *UploadAvatar) Execute(
	ctx context.Context,
	userID string,
	file io.Reader,
) (string, error) {

	ctx, span := tracer.Start(ctx, "profile.UploadAvatar")
	defer span.End()

	if uc.store == nil {
		return "", httperr.ErrBusiness("avatars_disabled")
	}

	body, err := imaging.Avatar(file)
	if errors.Is(err, imaging.ErrUnsupportedImage) {
		return "", httperr.ErrBusiness("invalid_image")
	}
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("avatars/%s/%s.webp", userID, uuid.NewString())
	url, err := uc.store.Put(ctx, key, "image/webp", body)
	if err != nil {
		return "", err
	}

	if err := uc.repo.SetAvatarURL(ctx, userID, url); err != nil {
		return "", fmt.Errorf("set avatar url %s: %w", userID, err)
	}
	return url, nil
}
