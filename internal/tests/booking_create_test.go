package tests

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"transfera/internal/domain"
	"transfera/internal/service"
)

type bookingFixture struct {
	bookingRepo *MockBookingRepository
	driverRepo  *MockDriverRepository
	userRepo    *MockUserRepository
	notifRepo   *MockNotificationRepository
	assigner    *MockAssigner
	svc         *service.BookingService
}

func newBookingFixture() *bookingFixture {
	bookingRepo := NewMockBookingRepository()
	driverRepo := NewMockDriverRepository()
	userRepo := NewMockUserRepository()
	notifRepo := NewMockNotificationRepository()
	assigner := NewMockAssigner(driverRepo, bookingRepo)

	notifications := service.NewNotificationService(notifRepo, nil, zap.NewNop())
	svc := service.NewBookingService(
		bookingRepo, driverRepo, userRepo,
		service.NewPricingService(), assigner, notifications,
	)

	return &bookingFixture{
		bookingRepo: bookingRepo,
		driverRepo:  driverRepo,
		userRepo:    userRepo,
		notifRepo:   notifRepo,
		assigner:    assigner,
		svc:         svc,
	}
}

func validCreateRequest() service.CreateBookingRequest {
	return service.CreateBookingRequest{
		ClientID:       "client-1",
		Role:           domain.RoleClient,
		Pickup:         hkCentral,
		Dropoff:        szFutian,
		ScheduledAt:    time.Now().Add(48 * time.Hour),
		VehicleClass:   domain.VehicleClassBusiness,
		PassengerCount: 2,
	}
}

func TestCreateBookingNoDrivers(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()

	resp, err := f.svc.CreateBooking(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	if resp.Driver != nil {
		t.Errorf("Driver = %+v, want nil", resp.Driver)
	}
	if resp.Booking.Status != domain.BookingStatusPending {
		t.Errorf("Status = %v, want PENDING", resp.Booking.Status)
	}
	if resp.Booking.DriverID != "" || resp.Booking.VehicleID != "" {
		t.Errorf("unassigned booking carries driver %q / vehicle %q", resp.Booking.DriverID, resp.Booking.VehicleID)
	}
	if resp.Booking.Pricing.TotalPrice <= 0 {
		t.Errorf("TotalPrice = %v, want > 0", resp.Booking.Pricing.TotalPrice)
	}
	if f.bookingRepo.Len() != 1 {
		t.Errorf("persisted bookings = %d, want 1", f.bookingRepo.Len())
	}
	if len(f.notifRepo.All()) != 0 {
		t.Errorf("notifications = %d, want 0", len(f.notifRepo.All()))
	}
}

func TestCreateBookingWithDriver(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.driverRepo.AddCandidate(domain.VehicleClassBusiness, &domain.DriverCandidate{
		DriverID:  "driver-1",
		UserID:    "user-9",
		VehicleID: "vehicle-1",
		Name:      "Wong Ka Ming",
		Phone:     "+85291234567",
	})

	resp, err := f.svc.CreateBooking(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	if resp.Driver == nil {
		t.Fatal("Driver = nil, want matched candidate")
	}
	if resp.Booking.Status != domain.BookingStatusConfirmed {
		t.Errorf("Status = %v, want CONFIRMED", resp.Booking.Status)
	}
	if resp.Booking.DriverID != "driver-1" || resp.Booking.VehicleID != "vehicle-1" {
		t.Errorf("bound pair = (%q, %q), want (driver-1, vehicle-1)", resp.Booking.DriverID, resp.Booking.VehicleID)
	}
	if f.bookingRepo.Len() != 1 {
		t.Errorf("persisted bookings = %d, want 1", f.bookingRepo.Len())
	}

	stored, err := f.bookingRepo.GetByID(context.Background(), resp.Booking.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Status != domain.BookingStatusConfirmed {
		t.Errorf("stored status = %v, want CONFIRMED", stored.Status)
	}

	notifications := f.notifRepo.All()
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications))
	}
	if notifications[0].UserID != "user-9" {
		t.Errorf("notification user = %q, want user-9", notifications[0].UserID)
	}
	if notifications[0].Type != domain.NotificationBookingAssigned {
		t.Errorf("notification type = %q, want %q", notifications[0].Type, domain.NotificationBookingAssigned)
	}
}

func TestCreateBookingDriverBusy(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.driverRepo.AddCandidate(domain.VehicleClassBusiness, &domain.DriverCandidate{
		DriverID:  "driver-1",
		UserID:    "user-9",
		VehicleID: "vehicle-1",
	})

	req := validCreateRequest()

	// An active booking one hour after the requested time sits inside the
	// conflict window and disqualifies the only candidate.
	f.bookingRepo.AddBooking(&domain.Booking{
		ID:          "existing-1",
		ClientID:    "client-2",
		DriverID:    "driver-1",
		VehicleID:   "vehicle-1",
		ScheduledAt: req.ScheduledAt.Add(time.Hour),
		Status:      domain.BookingStatusConfirmed,
	})

	resp, err := f.svc.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	if resp.Driver != nil {
		t.Errorf("Driver = %+v, want nil for busy driver", resp.Driver)
	}
	if resp.Booking.Status != domain.BookingStatusPending {
		t.Errorf("Status = %v, want PENDING", resp.Booking.Status)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*service.CreateBookingRequest)
		wantErr error
	}{
		{"empty client id", func(r *service.CreateBookingRequest) { r.ClientID = "" }, service.ErrInvalidClientID},
		{"zero passengers", func(r *service.CreateBookingRequest) { r.PassengerCount = 0 }, service.ErrInvalidPassengerCount},
		{"nine passengers", func(r *service.CreateBookingRequest) { r.PassengerCount = 9 }, service.ErrInvalidPassengerCount},
		{"pickup latitude out of range", func(r *service.CreateBookingRequest) { r.Pickup.Lat = 91 }, service.ErrInvalidPickupLocation},
		{"dropoff longitude out of range", func(r *service.CreateBookingRequest) { r.Dropoff.Lng = 181 }, service.ErrInvalidDropoffLocation},
		{"unknown vehicle class", func(r *service.CreateBookingRequest) { r.VehicleClass = "SEDAN" }, service.ErrInvalidVehicleClass},
		{"scheduled in the past", func(r *service.CreateBookingRequest) { r.ScheduledAt = time.Now().Add(-time.Hour) }, service.ErrScheduledInPast},
		{"same pickup and dropoff", func(r *service.CreateBookingRequest) { r.Dropoff = r.Pickup }, service.ErrSameRoute},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newBookingFixture()
			req := validCreateRequest()
			tt.mutate(&req)

			_, err := f.svc.CreateBooking(context.Background(), req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateBooking() error = %v, want %v", err, tt.wantErr)
			}
			if f.bookingRepo.Len() != 0 {
				t.Errorf("persisted bookings = %d, want 0 after rejection", f.bookingRepo.Len())
			}
			if got := atomic.LoadInt32(&f.bookingRepo.CreateCallCount); got != 0 {
				t.Errorf("Create calls = %d, want 0 after rejection", got)
			}
		})
	}
}

func TestCreateBookingRequiresClientRole(t *testing.T) {
	t.Parallel()

	for _, role := range []domain.Role{domain.RoleDriver, domain.RoleAdmin, ""} {
		f := newBookingFixture()
		req := validCreateRequest()
		req.Role = role

		_, err := f.svc.CreateBooking(context.Background(), req)
		if !errors.Is(err, service.ErrRoleForbidden) {
			t.Errorf("role %q: CreateBooking() error = %v, want ErrRoleForbidden", role, err)
		}
		if f.bookingRepo.Len() != 0 {
			t.Errorf("role %q: persisted bookings = %d, want 0", role, f.bookingRepo.Len())
		}
	}
}

func TestCreateBookingFreezesPricing(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	req := validCreateRequest()

	resp, err := f.svc.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	want, err := service.NewPricingService().Estimate(req.Pickup, req.Dropoff, req.VehicleClass, req.ScheduledAt)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}

	got := resp.Booking.Pricing
	if got.BasePrice != want.BasePrice || got.TotalPrice != want.TotalPrice || got.DistanceKm != want.DistanceKm {
		t.Errorf("frozen pricing = %+v, want %+v", got, want)
	}
	if math.Abs(got.TotalPrice-(got.BasePrice+got.SurchargeTotal())) > 0.001 {
		t.Errorf("TotalPrice = %v, want base %v + surcharges %v", got.TotalPrice, got.BasePrice, got.SurchargeTotal())
	}
}

func TestCreateBookingAssignerFailure(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.assigner.ClaimError = errors.New("redis unavailable")

	_, err := f.svc.CreateBooking(context.Background(), validCreateRequest())
	if err == nil {
		t.Fatal("CreateBooking() error = nil, want claim failure")
	}
	if f.bookingRepo.Len() != 0 {
		t.Errorf("persisted bookings = %d, want 0 after claim failure", f.bookingRepo.Len())
	}
}
