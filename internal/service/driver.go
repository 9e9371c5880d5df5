package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"transfera/internal/domain"
	"transfera/internal/repository"
)

// DriverService handles driver onboarding and availability.
type DriverService struct {
	driverRepo  repository.DriverRepository
	vehicleRepo repository.VehicleRepository
}

// NewDriverService creates a new DriverService.
func NewDriverService(driverRepo repository.DriverRepository, vehicleRepo repository.VehicleRepository) *DriverService {
	return &DriverService{
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
	}
}

// RegisterDriverRequest contains the parameters for registering a driver.
type RegisterDriverRequest struct {
	UserID       string
	Role         domain.Role
	LicenseNo    string
	VehicleClass domain.VehicleClass
	Make         string
	Model        string
	PlateNo      string
	Seats        int
}

// RegisterDriver creates a driver profile with its first vehicle. The profile
// starts unapproved and unavailable; an admin approves it before the driver
// can be matched.
func (s *DriverService) RegisterDriver(ctx context.Context, req RegisterDriverRequest) (*domain.DriverProfile, *domain.Vehicle, error) {
	if req.Role != domain.RoleDriver {
		return nil, nil, ErrRoleForbidden
	}
	if !domain.ValidVehicleClass(req.VehicleClass) {
		return nil, nil, ErrInvalidVehicleClass
	}

	if _, err := s.driverRepo.GetByUserID(ctx, req.UserID); err == nil {
		return nil, nil, ErrDriverProfileExists
	} else if err != repository.ErrNotFound {
		return nil, nil, err
	}

	profile := &domain.DriverProfile{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		LicenseNo: req.LicenseNo,
		CreatedAt: time.Now(),
	}
	if err := s.driverRepo.Create(ctx, profile); err != nil {
		return nil, nil, err
	}

	vehicle := &domain.Vehicle{
		ID:       uuid.New().String(),
		DriverID: profile.ID,
		Class:    req.VehicleClass,
		Make:     req.Make,
		Model:    req.Model,
		PlateNo:  req.PlateNo,
		Seats:    req.Seats,
		IsActive: true,
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, nil, err
	}

	return profile, vehicle, nil
}

// SetAvailability toggles the caller's availability flag.
func (s *DriverService) SetAvailability(ctx context.Context, userID string, role domain.Role, available bool) (*domain.DriverProfile, error) {
	if role != domain.RoleDriver {
		return nil, ErrRoleForbidden
	}

	profile, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.driverRepo.SetAvailability(ctx, profile.ID, available); err != nil {
		return nil, err
	}
	profile.IsAvailable = available

	return profile, nil
}

// ApproveDriver marks a driver profile as approved. Admin only.
func (s *DriverService) ApproveDriver(ctx context.Context, role domain.Role, driverID string) error {
	if role != domain.RoleAdmin {
		return ErrRoleForbidden
	}
	return s.driverRepo.SetApproval(ctx, driverID, true)
}
