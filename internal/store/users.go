package store

import (
	"context"
	"strings"

	"ecofinds/internal/models"

	"gorm.io/gorm"
)

type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

func (s *Users) Create(ctx context.Context, u *models.UserProfile) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *Users) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	var u models.UserProfile
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// GetByEmail matches case-insensitively.
func (s *Users) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	var u models.UserProfile
	err := s.db.WithContext(ctx).First(&u, "LOWER(email) = ?", strings.ToLower(email)).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Users) UpdateUsername(ctx context.Context, id, username string) error {
	result := s.db.WithContext(ctx).Model(&models.UserProfile{}).
		Where("id = ?", id).
		Update("username", username)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
