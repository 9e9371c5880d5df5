package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"transfera/internal/domain"
	"transfera/internal/event"
	"transfera/internal/repository"
)

// PublisherInterface defines the outbound event contract.
type PublisherInterface interface {
	PublishBookingCreated(ctx context.Context, evt event.BookingCreated) error
}

// NotificationService delivers notifications to users. Every method is
// best-effort: it runs strictly after the primary operation has committed and
// its failure is logged, never propagated.
type NotificationService struct {
	repo      repository.NotificationRepository
	publisher PublisherInterface // nil when no broker is configured
	logger    *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repository.NotificationRepository, publisher PublisherInterface, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// NotifyBookingAssigned informs the matched driver about a new booking.
func (s *NotificationService) NotifyBookingAssigned(ctx context.Context, booking *domain.Booking, driverUserID string) {
	notification := &domain.Notification{
		ID:     uuid.New().String(),
		UserID: driverUserID,
		Type:   domain.NotificationBookingAssigned,
		Title:  "New Booking Assigned",
		Message: fmt.Sprintf("You have been assigned a trip from %s to %s on %s",
			booking.Pickup.Address, booking.Dropoff.Address,
			booking.ScheduledAt.Format("2006-01-02 15:04")),
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to store assignment notification",
			zap.String("booking_id", booking.ID),
			zap.String("driver_user_id", driverUserID),
			zap.Error(err),
		)
	}
}

// NotifyBookingCancelled informs the assigned driver that a booking was cancelled.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, booking *domain.Booking, driverUserID string) {
	notification := &domain.Notification{
		ID:     uuid.New().String(),
		UserID: driverUserID,
		Type:   domain.NotificationBookingCancelled,
		Title:  "Booking Cancelled",
		Message: fmt.Sprintf("The trip from %s to %s on %s was cancelled",
			booking.Pickup.Address, booking.Dropoff.Address,
			booking.ScheduledAt.Format("2006-01-02 15:04")),
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to store cancellation notification",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
	}
}

// PublishBookingCreated emits the booking.created event when a broker is
// configured.
func (s *NotificationService) PublishBookingCreated(ctx context.Context, booking *domain.Booking) {
	if s.publisher == nil {
		return
	}

	evt := event.BookingCreated{
		BookingID:     booking.ID,
		ClientID:      booking.ClientID,
		DriverID:      booking.DriverID,
		VehicleClass:  string(booking.VehicleClass),
		Status:        string(booking.Status),
		ScheduledAt:   booking.ScheduledAt,
		TotalPrice:    booking.Pricing.TotalPrice,
		PickupRegion:  booking.Pickup.Region,
		DropoffRegion: booking.Dropoff.Region,
		OccurredAt:    time.Now(),
	}

	if err := s.publisher.PublishBookingCreated(ctx, evt); err != nil {
		s.logger.Warn("failed to publish booking.created",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
	}
}
