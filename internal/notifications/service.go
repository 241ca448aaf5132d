// Package notifications stores in-app messages for users.
package notifications

import (
	"context"
	"errors"
	"fmt"

	"ecofinds/internal/apperr"
	"ecofinds/internal/models"
	"ecofinds/internal/store"
)

// DefaultLimit caps how many notifications a listing returns.
const DefaultLimit = 50

var ErrNotFound = apperr.NotFound("Notification not found")

type Store interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, id string) error
}

type Inbox struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Notify stores a new unread notification for n.UserID.
func (s *Service) Notify(ctx context.Context, n *models.Notification) error {
	n.Read = false
	if err := s.store.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string) (*Inbox, error) {
	list, err := s.store.ListByUser(ctx, userID, DefaultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	unread, err := s.store.UnreadCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}
	if list == nil {
		list = []models.Notification{}
	}
	return &Inbox{Notifications: list, UnreadCount: unread}, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	return notFound(s.store.MarkRead(ctx, userID, id))
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.store.MarkAllRead(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return notFound(s.store.Delete(ctx, userID, id))
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
