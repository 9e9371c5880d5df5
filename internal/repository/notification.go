package repository

import (
	"context"

	"transfera/internal/domain"
)

// NotificationRepository defines the persistence operations for notifications.
type NotificationRepository interface {
	// Create adds a new notification.
	Create(ctx context.Context, notification *domain.Notification) error

	// GetByUser retrieves a user's notifications, newest first.
	GetByUser(ctx context.Context, userID string) ([]*domain.Notification, error)

	// MarkRead marks one of userID's notifications as read. Returns
	// ErrNotFound when the notification does not exist or belongs to
	// someone else.
	MarkRead(ctx context.Context, id, userID string) error
}
