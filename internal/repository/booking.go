package repository

import (
	"context"
	"time"

	"transfera/internal/domain"
)

// BookingFilter narrows a booking listing.
type BookingFilter struct {
	ClientID string               // empty means all clients (admin)
	Status   domain.BookingStatus // empty means any status
	Page     int
	Limit    int
}

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// List retrieves bookings matching the filter, newest first, along with
	// the total count before pagination.
	List(ctx context.Context, filter BookingFilter) ([]*domain.Booking, int, error)

	// CountConflicts returns how many of the driver's bookings in an active
	// status are scheduled inside [from, to].
	CountConflicts(ctx context.Context, driverID string, from, to time.Time) (int, error)

	// Update updates an existing booking.
	Update(ctx context.Context, booking *domain.Booking) error
}
