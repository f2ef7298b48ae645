package profile

import "github.com/BruksfildServices01/auralynk/internal/models"

const (
	FallbackDisplayName = "New Reader"
	FallbackBio         = "This is your default profile. Edit it now!"
)

// Fallback is the profile created the first time an authenticated user
// without a stored profile asks for it.
func Fallback(id, email, role string) *models.User {
	if role != models.RoleClient && role != models.RoleReader {
		role = models.RoleReader
	}
	return &models.User{
		ID:             id,
		Role:           role,
		DisplayName:    FallbackDisplayName,
		Bio:            FallbackBio,
		Email:          email,
		AvailableSlots: []string{},
		Services:       []string{},
	}
}

// Patch is a merge update: nil fields are left untouched.
type Patch struct {
	DisplayName *string   `json:"displayName"`
	Bio         *string   `json:"bio"`
	Email       *string   `json:"email"`
	Services    *[]string `json:"services"`
}

func (p Patch) Empty() bool {
	return p.DisplayName == nil && p.Bio == nil && p.Email == nil && p.Services == nil
}
