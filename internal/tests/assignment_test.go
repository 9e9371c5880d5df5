package tests

import (
	"context"
	"testing"
	"time"

	"transfera/internal/domain"
	"transfera/internal/service"
)

func TestConflictWindowBounds(t *testing.T) {
	t.Parallel()

	scheduledAt := time.Date(2026, 9, 16, 10, 0, 0, 0, time.UTC)
	from, to := service.ConflictWindow(scheduledAt)

	if want := scheduledAt.Add(-2 * time.Hour); !from.Equal(want) {
		t.Errorf("from = %v, want %v", from, want)
	}
	if want := scheduledAt.Add(4 * time.Hour); !to.Equal(want) {
		t.Errorf("to = %v, want %v", to, want)
	}
}

func claimFixture() (*MockDriverRepository, *MockBookingRepository, *MockAssigner) {
	driverRepo := NewMockDriverRepository()
	bookingRepo := NewMockBookingRepository()
	return driverRepo, bookingRepo, NewMockAssigner(driverRepo, bookingRepo)
}

func newClaimBooking(scheduledAt time.Time) *domain.Booking {
	return &domain.Booking{
		ID:           "booking-1",
		ClientID:     "client-1",
		Pickup:       hkCentral,
		Dropoff:      szFutian,
		ScheduledAt:  scheduledAt,
		VehicleClass: domain.VehicleClassBusiness,
		Status:       domain.BookingStatusPending,
		CreatedAt:    time.Now(),
	}
}

func TestClaimPrefersLowestDriverID(t *testing.T) {
	t.Parallel()

	driverRepo, _, assigner := claimFixture()

	// Seeded out of order; candidates come back sorted by driver ID.
	driverRepo.AddCandidate(domain.VehicleClassBusiness, &domain.DriverCandidate{DriverID: "driver-002", UserID: "user-2", VehicleID: "vehicle-2"})
	driverRepo.AddCandidate(domain.VehicleClassBusiness, &domain.DriverCandidate{DriverID: "driver-001", UserID: "user-1", VehicleID: "vehicle-1"})

	candidate, err := assigner.Claim(context.Background(), newClaimBooking(time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("Claim() error = %v", err)
	}
	if candidate == nil {
		t.Fatal("Claim() = nil, want candidate")
	}
	if candidate.DriverID != "driver-001" {
		t.Errorf("claimed driver = %q, want driver-001", candidate.DriverID)
	}
}

func TestClaimSkipsConflictedDriver(t *testing.T) {
	t.Parallel()

	driverRepo, bookingRepo, assigner := claimFixture()

	driverRepo.AddCandidate(domain.VehicleClassBusiness, &domain.DriverCandidate{DriverID: "driver-001", UserID: "user-1", VehicleID: "vehicle-1"})
	driverRepo.AddCandidate(domain.VehicleClassBusiness, &domain.DriverCandidate{DriverID: "driver-002", UserID: "user-2", VehicleID: "vehicle-2"})

	scheduledAt := time.Now().Add(24 * time.Hour)

	// driver-001 already has an active trip inside the window.
	bookingRepo.AddBooking(&domain.Booking{
		ID:          "existing-1",
		ClientID:    "client-2",
		DriverID:    "driver-001",
		VehicleID:   "vehicle-1",
		ScheduledAt: scheduledAt.Add(time.Hour),
		Status:      domain.BookingStatusInProgress,
	})

	candidate, err := assigner.Claim(context.Background(), newClaimBooking(scheduledAt))
	if err != nil {
		t.Fatalf("Claim() error = %v", err)
	}
	if candidate == nil {
		t.Fatal("Claim() = nil, want driver-002")
	}
	if candidate.DriverID != "driver-002" {
		t.Errorf("claimed driver = %q, want driver-002", candidate.DriverID)
	}
}

func TestClaimConflictWindowEdges(t *testing.T) {
	t.Parallel()

	scheduledAt := time.Date(2026, 9, 16, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		existingOffset time.Duration
		existingStatus domain.BookingStatus
		wantClaimed    bool
	}{
		{"trip one hour later blocks", time.Hour, domain.BookingStatusConfirmed, false},
		{"trip at window start blocks", -2 * time.Hour, domain.BookingStatusConfirmed, false},
		{"trip at window end blocks", 4 * time.Hour, domain.BookingStatusConfirmed, false},
		{"trip just before window", -2*time.Hour - time.Minute, domain.BookingStatusConfirmed, true},
		{"trip just after window", 4*time.Hour + time.Minute, domain.BookingStatusConfirmed, true},
		{"cancelled trip never blocks", time.Hour, domain.BookingStatusCancelled, true},
		{"completed trip never blocks", time.Hour, domain.BookingStatusCompleted, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			driverRepo, bookingRepo, assigner := claimFixture()
			driverRepo.AddCandidate(domain.VehicleClassBusiness, &domain.DriverCandidate{DriverID: "driver-001", UserID: "user-1", VehicleID: "vehicle-1"})

			bookingRepo.AddBooking(&domain.Booking{
				ID:          "existing-1",
				ClientID:    "client-2",
				DriverID:    "driver-001",
				VehicleID:   "vehicle-1",
				ScheduledAt: scheduledAt.Add(tt.existingOffset),
				Status:      tt.existingStatus,
			})

			candidate, err := assigner.Claim(context.Background(), newClaimBooking(scheduledAt))
			if err != nil {
				t.Fatalf("Claim() error = %v", err)
			}
			if got := candidate != nil; got != tt.wantClaimed {
				t.Errorf("claimed = %v, want %v", got, tt.wantClaimed)
			}
		})
	}
}

func TestClaimNoCandidates(t *testing.T) {
	t.Parallel()

	_, bookingRepo, assigner := claimFixture()

	booking := newClaimBooking(time.Now().Add(24 * time.Hour))
	candidate, err := assigner.Claim(context.Background(), booking)
	if err != nil {
		t.Fatalf("Claim() error = %v", err)
	}
	if candidate != nil {
		t.Errorf("Claim() = %+v, want nil", candidate)
	}
	if bookingRepo.Len() != 0 {
		t.Errorf("persisted bookings = %d, want 0 when nothing was claimed", bookingRepo.Len())
	}
	if booking.Status != domain.BookingStatusPending {
		t.Errorf("booking status = %v, want PENDING untouched", booking.Status)
	}
}

func TestDriverLockSingleHolder(t *testing.T) {
	t.Parallel()

	lockStore := NewMockLockStore()
	ctx := context.Background()

	locked, err := lockStore.AcquireDriverLock(ctx, "driver-001", 10*time.Second)
	if err != nil || !locked {
		t.Fatalf("first AcquireDriverLock() = (%v, %v), want (true, nil)", locked, err)
	}

	locked, err = lockStore.AcquireDriverLock(ctx, "driver-001", 10*time.Second)
	if err != nil {
		t.Fatalf("second AcquireDriverLock() error = %v", err)
	}
	if locked {
		t.Error("second AcquireDriverLock() = true, want false while held")
	}

	// A different driver's lock is independent.
	locked, err = lockStore.AcquireDriverLock(ctx, "driver-002", 10*time.Second)
	if err != nil || !locked {
		t.Fatalf("AcquireDriverLock(driver-002) = (%v, %v), want (true, nil)", locked, err)
	}

	if err := lockStore.ReleaseDriverLock(ctx, "driver-001"); err != nil {
		t.Fatalf("ReleaseDriverLock() error = %v", err)
	}
	locked, err = lockStore.AcquireDriverLock(ctx, "driver-001", 10*time.Second)
	if err != nil || !locked {
		t.Fatalf("AcquireDriverLock() after release = (%v, %v), want (true, nil)", locked, err)
	}
}
