package service

import "errors"

var (
	// ErrSameRoute is returned when pickup and dropoff resolve to the same point.
	ErrSameRoute = errors.New("pickup and dropoff are the same point")

	// ErrInvalidVehicleClass is returned when the vehicle class is unrecognized.
	ErrInvalidVehicleClass = errors.New("invalid vehicle class")

	// ErrInvalidPickupLocation is returned when pickup coordinates are out of range.
	ErrInvalidPickupLocation = errors.New("invalid pickup location")

	// ErrInvalidDropoffLocation is returned when dropoff coordinates are out of range.
	ErrInvalidDropoffLocation = errors.New("invalid dropoff location")

	// ErrInvalidPassengerCount is returned when passenger count is outside [1, 8].
	ErrInvalidPassengerCount = errors.New("passenger count must be between 1 and 8")

	// ErrScheduledInPast is returned when the scheduled time is not in the future.
	ErrScheduledInPast = errors.New("scheduled time must be in the future")

	// ErrInvalidClientID is returned when the client ID is empty.
	ErrInvalidClientID = errors.New("invalid client id")

	// ErrInvalidBookingID is returned when the booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidStatusFilter is returned when a status filter is unrecognized.
	ErrInvalidStatusFilter = errors.New("invalid booking status")

	// ErrRoleForbidden is returned when the caller's role does not permit the operation.
	ErrRoleForbidden = errors.New("role does not permit this operation")

	// ErrNotBookingOwner is returned when the caller does not own the booking.
	ErrNotBookingOwner = errors.New("booking belongs to another client")

	// ErrBookingNotCancellable is returned when the booking is past the point of cancellation.
	ErrBookingNotCancellable = errors.New("booking cannot be cancelled in current state")

	// ErrDriverProfileExists is returned when the user already has a driver profile.
	ErrDriverProfileExists = errors.New("driver profile already exists")

	// ErrEmailTaken is returned when the registration email is already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login credentials do not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
