package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/auralynk/internal/models"
)

func getUser(ctx context.Context, db *gorm.DB, id string) (*models.User, error) {
	var u models.User
	if err := db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func getUsersByIDs(ctx context.Context, db *gorm.DB, ids []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	if err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, err
	}

	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
