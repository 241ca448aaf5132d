package store

import (
	"context"

	"ecofinds/internal/models"

	"gorm.io/gorm"
)

type Notifications struct {
	db *gorm.DB
}

func NewNotifications(db *gorm.DB) *Notifications {
	return &Notifications{db: db}
}

func (s *Notifications) Create(ctx context.Context, n *models.Notification) error {
	return translate(s.db.WithContext(ctx).Create(n).Error)
}

func (s *Notifications) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&notifications).Error
	return notifications, translate(err)
}

func (s *Notifications) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&n).Error
	return n, translate(err)
}

// MarkRead flags one of the user's notifications as read.
func (s *Notifications) MarkRead(ctx context.Context, userID, id string) error {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Notifications) MarkAllRead(ctx context.Context, userID string) error {
	return translate(s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error)
}

func (s *Notifications) Delete(ctx context.Context, userID, id string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
