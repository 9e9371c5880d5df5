package repository

import (
	"context"

	"transfera/internal/domain"
)

// DriverRepository defines the persistence operations for driver profiles.
type DriverRepository interface {
	// Create adds a new driver profile.
	Create(ctx context.Context, profile *domain.DriverProfile) error

	// GetByID retrieves a driver profile by ID.
	GetByID(ctx context.Context, id string) (*domain.DriverProfile, error)

	// GetByUserID retrieves the driver profile owned by a user.
	GetByUserID(ctx context.Context, userID string) (*domain.DriverProfile, error)

	// GetAll retrieves all driver profiles.
	GetAll(ctx context.Context) ([]*domain.DriverProfile, error)

	// FindCandidates returns approved, available drivers owning at least one
	// active vehicle of the requested class, ordered by driver ID.
	FindCandidates(ctx context.Context, class domain.VehicleClass) ([]*domain.DriverCandidate, error)

	// SetAvailability updates the availability flag of a driver.
	SetAvailability(ctx context.Context, id string, available bool) error

	// SetApproval updates the approval flag of a driver.
	SetApproval(ctx context.Context, id string, approved bool) error
}
