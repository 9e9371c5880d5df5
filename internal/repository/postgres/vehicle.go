package postgres

import (
	"context"
	"database/sql"
	"errors"

	"transfera/internal/domain"
	"transfera/internal/repository"
)

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

// Create adds a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, driver_id, class, make, model, plate_no, seats, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.DriverID,
		vehicle.Class,
		vehicle.Make,
		vehicle.Model,
		vehicle.PlateNo,
		vehicle.Seats,
		vehicle.IsActive,
	)
	return err
}

// GetByID retrieves a vehicle by ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `
		SELECT id, driver_id, class, COALESCE(make, ''), COALESCE(model, ''), COALESCE(plate_no, ''), seats, is_active
		FROM vehicles WHERE id = $1
	`

	var v domain.Vehicle
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.DriverID, &v.Class, &v.Make, &v.Model, &v.PlateNo, &v.Seats, &v.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// GetByDriver retrieves all vehicles owned by a driver.
func (r *VehicleRepository) GetByDriver(ctx context.Context, driverID string) ([]*domain.Vehicle, error) {
	query := `
		SELECT id, driver_id, class, COALESCE(make, ''), COALESCE(model, ''), COALESCE(plate_no, ''), seats, is_active
		FROM vehicles WHERE driver_id = $1 ORDER BY id
	`
	rows, err := r.q.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.DriverID, &v.Class, &v.Make, &v.Model, &v.PlateNo, &v.Seats, &v.IsActive); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, &v)
	}
	return vehicles, rows.Err()
}

// SetActive updates the active flag of a vehicle.
func (r *VehicleRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.q.ExecContext(ctx, `UPDATE vehicles SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
