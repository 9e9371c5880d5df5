package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"transfera/internal/domain"
	"transfera/internal/repository"
)

// AssignerInterface defines the driver-claim contract.
// This interface allows for testing with mock implementations.
type AssignerInterface interface {
	// Claim binds an eligible driver to the booking and persists it
	// CONFIRMED. Returns (nil, nil) when no driver is eligible; in that case
	// the booking has not been persisted.
	Claim(ctx context.Context, booking *domain.Booking) (*domain.DriverCandidate, error)
}

// Ensure AssignmentService implements AssignerInterface.
var _ AssignerInterface = (*AssignmentService)(nil)

// BookingService handles the booking creation workflow and booking queries.
type BookingService struct {
	bookingRepo   repository.BookingRepository
	driverRepo    repository.DriverRepository
	userRepo      repository.UserRepository
	pricing       *PricingService
	assigner      AssignerInterface
	notifications *NotificationService
	now           func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	driverRepo repository.DriverRepository,
	userRepo repository.UserRepository,
	pricing *PricingService,
	assigner AssignerInterface,
	notifications *NotificationService,
) *BookingService {
	return &BookingService{
		bookingRepo:   bookingRepo,
		driverRepo:    driverRepo,
		userRepo:      userRepo,
		pricing:       pricing,
		assigner:      assigner,
		notifications: notifications,
		now:           time.Now,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	ClientID        string
	Role            domain.Role
	Pickup          domain.Location
	Dropoff         domain.Location
	ScheduledAt     time.Time
	VehicleClass    domain.VehicleClass
	PassengerCount  int
	Luggage         string
	SpecialRequests string
}

// CreateBookingResponse contains the result of creating a booking.
type CreateBookingResponse struct {
	Booking *domain.Booking
	Driver  *domain.DriverCandidate // nil when no driver was matched
}

// CreateBooking runs the full creation workflow: validate, price, try to
// claim a driver, persist, notify. Exactly one booking row is persisted per
// successful call. The booking comes back CONFIRMED with a bound
// driver/vehicle pair when a driver was claimed, PENDING with neither
// otherwise.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error) {
	if req.Role != domain.RoleClient {
		return nil, ErrRoleForbidden
	}
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	pricing, err := s.pricing.Estimate(req.Pickup, req.Dropoff, req.VehicleClass, req.ScheduledAt)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:              uuid.New().String(),
		ClientID:        req.ClientID,
		Pickup:          req.Pickup,
		Dropoff:         req.Dropoff,
		ScheduledAt:     req.ScheduledAt,
		Pricing:         pricing,
		VehicleClass:    req.VehicleClass,
		PassengerCount:  req.PassengerCount,
		Luggage:         req.Luggage,
		SpecialRequests: req.SpecialRequests,
		Status:          domain.BookingStatusPending,
		CreatedAt:       s.now(),
	}

	candidate, err := s.assigner.Claim(ctx, booking)
	if err != nil {
		return nil, err
	}

	if candidate == nil {
		// No eligible driver: persist the booking unassigned. This is not
		// an error; the booking awaits later assignment.
		if err := s.bookingRepo.Create(ctx, booking); err != nil {
			return nil, err
		}
	} else {
		// The claim already persisted the booking; the side effects below
		// run strictly after the commit and never roll it back.
		s.notifications.NotifyBookingAssigned(ctx, booking, candidate.UserID)
	}

	s.notifications.PublishBookingCreated(ctx, booking)

	return &CreateBookingResponse{Booking: booking, Driver: candidate}, nil
}

// validateCreateRequest validates the create booking request.
func (s *BookingService) validateCreateRequest(req CreateBookingRequest) error {
	if req.ClientID == "" {
		return ErrInvalidClientID
	}
	if !isValidLatitude(req.Pickup.Lat) || !isValidLongitude(req.Pickup.Lng) {
		return ErrInvalidPickupLocation
	}
	if !isValidLatitude(req.Dropoff.Lat) || !isValidLongitude(req.Dropoff.Lng) {
		return ErrInvalidDropoffLocation
	}
	if req.PassengerCount < 1 || req.PassengerCount > 8 {
		return ErrInvalidPassengerCount
	}
	if !domain.ValidVehicleClass(req.VehicleClass) {
		return ErrInvalidVehicleClass
	}
	if !req.ScheduledAt.After(s.now()) {
		return ErrScheduledInPast
	}
	return nil
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

// GetBooking retrieves a booking. Clients can only see their own bookings.
func (s *BookingService) GetBooking(ctx context.Context, callerID string, role domain.Role, bookingID string) (*domain.Booking, *domain.DriverCandidate, error) {
	if bookingID == "" {
		return nil, nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	if role != domain.RoleAdmin && booking.ClientID != callerID {
		return nil, nil, ErrNotBookingOwner
	}

	driver, err := s.driverCard(ctx, booking)
	if err != nil {
		return nil, nil, err
	}

	return booking, driver, nil
}

// ListBookingsRequest contains the parameters for listing bookings.
type ListBookingsRequest struct {
	CallerID string
	Role     domain.Role
	Status   domain.BookingStatus
	Page     int
	Limit    int
}

// ListBookings returns the caller's bookings (all bookings for admins),
// newest first, with the total count before pagination.
func (s *BookingService) ListBookings(ctx context.Context, req ListBookingsRequest) ([]*domain.Booking, int, error) {
	filter := repository.BookingFilter{
		Status: req.Status,
		Page:   req.Page,
		Limit:  req.Limit,
	}
	if req.Role != domain.RoleAdmin {
		filter.ClientID = req.CallerID
	}

	return s.bookingRepo.List(ctx, filter)
}

// CancelBooking cancels a booking. Only the owning client (or an admin) may
// cancel, and only from PENDING or CONFIRMED.
func (s *BookingService) CancelBooking(ctx context.Context, callerID string, role domain.Role, bookingID, reason string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if role != domain.RoleAdmin && booking.ClientID != callerID {
		return nil, ErrNotBookingOwner
	}

	if booking.Status != domain.BookingStatusPending && booking.Status != domain.BookingStatusConfirmed {
		return nil, ErrBookingNotCancellable
	}

	booking.Status = domain.BookingStatusCancelled
	booking.CancelledAt = s.now()
	booking.CancelReason = reason

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if booking.DriverID != "" {
		if profile, err := s.driverRepo.GetByID(ctx, booking.DriverID); err == nil {
			s.notifications.NotifyBookingCancelled(ctx, booking, profile.UserID)
		}
	}

	return booking, nil
}

// driverCard builds the denormalized driver display fields for an assigned
// booking. Returns nil for unassigned bookings.
func (s *BookingService) driverCard(ctx context.Context, booking *domain.Booking) (*domain.DriverCandidate, error) {
	if !booking.Assigned() {
		return nil, nil
	}

	profile, err := s.driverRepo.GetByID(ctx, booking.DriverID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, profile.UserID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &domain.DriverCandidate{
		DriverID:  booking.DriverID,
		UserID:    profile.UserID,
		VehicleID: booking.VehicleID,
		Name:      user.Name,
		Phone:     user.Phone,
		AvatarURL: user.AvatarURL,
	}, nil
}

// ValidateBookingStatus validates a status filter string.
func ValidateBookingStatus(status string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(status) {
	case domain.BookingStatusPending, domain.BookingStatusConfirmed,
		domain.BookingStatusInProgress, domain.BookingStatusCompleted,
		domain.BookingStatusCancelled:
		return domain.BookingStatus(status), nil
	case "":
		return "", nil
	default:
		return "", ErrInvalidStatusFilter
	}
}
