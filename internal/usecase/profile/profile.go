package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/auralynk/internal/domain/profile"
	"github.com/BruksfildServices01/auralynk/internal/httperr"
	"github.com/BruksfildServices01/auralynk/internal/models"
	"github.com/BruksfildServices01/auralynk/internal/validators"
)

var tracer = otel.Tracer("github.com/BruksfildServices01/auralynk/internal/usecase/profile")

const maxDisplayName = 100

// ======================================================
// GET (creates the fallback profile on first read)
// ======================================================

type GetProfile struct {
	repo domain.Repository
}

func NewGetProfile(repo domain.Repository) *GetProfile {
	return &GetProfile{repo: repo}
}

func (uc *GetProfile) Execute(
	ctx context.Context,
	userID string,
	email string,
	role string,
) (*models.User, error) {

	ctx, span := tracer.Start(ctx, "profile.Get")
	defer span.End()

	u, err := uc.repo.GetUser(ctx, userID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}

	u, err = uc.repo.CreateUserIfMissing(ctx, domain.Fallback(userID, email, role))
	if err != nil {
		return nil, fmt.Errorf("create fallback profile %s: %w", userID, err)
	}
	return u, nil
}

// ======================================================
// SAVE (merge)
// ======================================================

type SaveProfile struct {
	repo domain.Repository
	get  *GetProfile
}

func NewSaveProfile(repo domain.Repository, get *GetProfile) *SaveProfile {
	return &SaveProfile{
		repo: repo,
		get:  get,
	}
}

// Execute writes only the fields set in patch. Fields left nil keep their
// stored value.
func (uc *SaveProfile) Execute(
	ctx context.Context,
	userID string,
	email string,
	role string,
	patch domain.Patch,
) (*models.User, error) {

	ctx, span := tracer.Start(ctx, "profile.Save")
	defer span.End()

	fields := map[string]any{}

	if patch.DisplayName != nil {
		name := strings.TrimSpace(*patch.DisplayName)
		if name == "" || len(name) > maxDisplayName {
			return nil, httperr.ErrBusiness("invalid_display_name")
		}
		fields["display_name"] = name
	}

	if patch.Bio != nil {
		fields["bio"] = strings.TrimSpace(*patch.Bio)
	}

	if patch.Email != nil {
		addr := strings.TrimSpace(*patch.Email)
		if !validators.IsEmailSyntaxValid(addr) {
			return nil, httperr.ErrBusiness("invalid_email")
		}
		fields["email"] = addr
	}

	if patch.Services != nil {
		services := make([]string, 0, len(*patch.Services))
		for _, s := range *patch.Services {
			if s = strings.TrimSpace(s); s != "" {
				services = append(services, s)
			}
		}
		fields["services"] = pq.StringArray(services)
	}

	// the row must exist before a partial update
	if _, err := uc.get.Execute(ctx, userID, email, role); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateProfile(ctx, userID, fields); err != nil {
		return nil, fmt.Errorf("update profile %s: %w", userID, err)
	}

	return uc.repo.GetUser(ctx, userID)
}
