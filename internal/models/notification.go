package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID        string                 `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string                 `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Type      NotificationType       `json:"type" gorm:"type:varchar(16);not null"`
	Title     string                 `json:"title" gorm:"not null"`
	Message   string                 `json:"message" gorm:"not null"`
	Read      bool                   `json:"read" gorm:"default:false"`
	ActionURL *string                `json:"action_url,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" gorm:"type:text;serializer:json"`
	CreatedAt time.Time              `json:"timestamp" gorm:"index"`
}

type NotificationType string

const (
	NotificationTypeOrder    NotificationType = "order"
	NotificationTypeListing  NotificationType = "listing"
	NotificationTypeFavorite NotificationType = "favorite"
	NotificationTypeFollow   NotificationType = "follow"
	NotificationTypeSystem   NotificationType = "system"
	NotificationTypeMessage  NotificationType = "message"
)

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}
