package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"transfera/internal/domain"
	"transfera/internal/redis"
	"transfera/internal/repository"
	"transfera/internal/repository/postgres"
)

const (
	// Conflict window around the requested time. Asymmetric: the 4h tail
	// models the expected trip duration of an earlier booking.
	conflictWindowBefore = 2 * time.Hour
	conflictWindowAfter  = 4 * time.Hour

	driverClaimTTL = 10 * time.Second
)

// ConflictWindow returns the interval inside which an existing active booking
// on the same driver disqualifies that driver.
func ConflictWindow(scheduledAt time.Time) (from, to time.Time) {
	return scheduledAt.Add(-conflictWindowBefore), scheduledAt.Add(conflictWindowAfter)
}

// AssignmentService finds an eligible driver for a booking and claims it.
//
// Eligibility: approved, available, owns an active vehicle of the requested
// class, and has zero active bookings scheduled inside the conflict window.
// Tie-break is lowest driver ID. The claim is protected twice: a per-driver
// Redis lock held across the claim, and a re-run of the conflict-window count
// inside the same transaction that inserts the booking.
type AssignmentService struct {
	db          *sql.DB
	lockStore   redis.LockStoreInterface
	driverRepo  repository.DriverRepository
	bookingRepo repository.BookingRepository
	logger      *zap.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	db *sql.DB,
	lockStore redis.LockStoreInterface,
	driverRepo repository.DriverRepository,
	bookingRepo repository.BookingRepository,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		db:          db,
		lockStore:   lockStore,
		driverRepo:  driverRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Claim tries to bind an eligible driver to the booking and persist it.
//
// On success the booking has been inserted CONFIRMED with the driver and
// vehicle bound, and the matched candidate is returned. When no driver is
// eligible it returns (nil, nil) and the booking is NOT persisted; the caller
// decides what to do with the unassigned booking.
func (s *AssignmentService) Claim(ctx context.Context, booking *domain.Booking) (*domain.DriverCandidate, error) {
	candidates, err := s.driverRepo.FindCandidates(ctx, booking.VehicleClass)
	if err != nil {
		return nil, err
	}

	from, to := ConflictWindow(booking.ScheduledAt)

	for _, candidate := range candidates {
		// Cheap pre-check outside the transaction to skip busy drivers
		// without taking their lock.
		conflicts, err := s.bookingRepo.CountConflicts(ctx, candidate.DriverID, from, to)
		if err != nil {
			return nil, err
		}
		if conflicts > 0 {
			continue
		}

		locked, err := s.lockStore.AcquireDriverLock(ctx, candidate.DriverID, driverClaimTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			// Another request is claiming this driver.
			continue
		}

		claimed, err := s.claimInTx(ctx, booking, candidate, from, to)
		if err != nil {
			_ = s.lockStore.ReleaseDriverLock(ctx, candidate.DriverID)
			return nil, err
		}
		if !claimed {
			// Lost the race between the pre-check and the transaction.
			_ = s.lockStore.ReleaseDriverLock(ctx, candidate.DriverID)
			continue
		}

		// Success: the lock expires via TTL.
		return candidate, nil
	}

	return nil, nil
}

// claimInTx re-validates the conflict window and inserts the booking in a
// single transaction. Returns false when the driver turned out to be busy.
func (s *AssignmentService) claimInTx(ctx context.Context, booking *domain.Booking, candidate *domain.DriverCandidate, from, to time.Time) (claimed bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}

	defer func() {
		if err != nil || !claimed {
			_ = tx.Rollback()
		}
	}()

	txBookingRepo := postgres.NewBookingRepositoryWithTx(tx)

	conflicts, err := txBookingRepo.CountConflicts(ctx, candidate.DriverID, from, to)
	if err != nil {
		return false, err
	}
	if conflicts > 0 {
		return false, nil
	}

	booking.DriverID = candidate.DriverID
	booking.VehicleID = candidate.VehicleID
	booking.Status = domain.BookingStatusConfirmed

	if err = txBookingRepo.Create(ctx, booking); err != nil {
		booking.DriverID = ""
		booking.VehicleID = ""
		booking.Status = domain.BookingStatusPending
		return false, err
	}

	if err = tx.Commit(); err != nil {
		booking.DriverID = ""
		booking.VehicleID = ""
		booking.Status = domain.BookingStatusPending
		return false, err
	}

	s.logger.Info("driver claimed for booking",
		zap.String("booking_id", booking.ID),
		zap.String("driver_id", candidate.DriverID),
		zap.String("vehicle_id", candidate.VehicleID),
	)

	return true, nil
}
