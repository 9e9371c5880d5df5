package domain

import "time"

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingAssigned  NotificationType = "BOOKING_ASSIGNED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
)

// Notification represents a message addressed to a user. Delivery is
// best-effort: failures never affect the operation that produced it.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}
