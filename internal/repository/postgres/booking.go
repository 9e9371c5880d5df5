package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"transfera/internal/domain"
	"transfera/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, client_id, driver_id, vehicle_id,
	pickup_address, pickup_lat, pickup_lng, pickup_region,
	dropoff_address, dropoff_lat, dropoff_lng, dropoff_region,
	scheduled_at, distance_km, estimated_duration_min,
	base_price, surcharge_breakdown, total_price,
	vehicle_class, passenger_count, COALESCE(luggage, ''), COALESCE(special_requests, ''),
	status, cancelled_at, cancel_reason, created_at`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (
			id, client_id, driver_id, vehicle_id,
			pickup_address, pickup_lat, pickup_lng, pickup_region,
			dropoff_address, dropoff_lat, dropoff_lng, dropoff_region,
			scheduled_at, distance_km, estimated_duration_min,
			base_price, surcharge_breakdown, total_price,
			vehicle_class, passenger_count, luggage, special_requests,
			status, cancelled_at, cancel_reason, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
	`

	breakdown, err := json.Marshal(booking.Pricing.Surcharges)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		booking.ID,
		booking.ClientID,
		nullString(booking.DriverID),
		nullString(booking.VehicleID),
		booking.Pickup.Address,
		booking.Pickup.Lat,
		booking.Pickup.Lng,
		booking.Pickup.Region,
		booking.Dropoff.Address,
		booking.Dropoff.Lat,
		booking.Dropoff.Lng,
		booking.Dropoff.Region,
		booking.ScheduledAt,
		booking.Pricing.DistanceKm,
		int(booking.Pricing.EstimatedDuration.Minutes()),
		booking.Pricing.BasePrice,
		breakdown,
		booking.Pricing.TotalPrice,
		booking.VehicleClass,
		booking.PassengerCount,
		nullString(booking.Luggage),
		nullString(booking.SpecialRequests),
		booking.Status,
		nullTime(booking.CancelledAt),
		nullString(booking.CancelReason),
		booking.CreatedAt,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// List retrieves bookings matching the filter, newest first, along with the
// total count before pagination.
func (r *BookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]*domain.Booking, int, error) {
	where := ` WHERE 1=1`
	args := []any{}

	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		where += ` AND client_id = $1`
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		if filter.ClientID != "" {
			where += ` AND status = $2`
		} else {
			where += ` AND status = $1`
		}
	}

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := `SELECT ` + bookingColumns + ` FROM bookings` + where +
		` ORDER BY created_at DESC` +
		` LIMIT ` + itoa(limit) + ` OFFSET ` + itoa(offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, total, rows.Err()
}

// CountConflicts returns how many of the driver's bookings in an active
// status are scheduled inside [from, to].
func (r *BookingRepository) CountConflicts(ctx context.Context, driverID string, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE driver_id = $1
		  AND scheduled_at BETWEEN $2 AND $3
		  AND status IN ('PENDING', 'CONFIRMED', 'IN_PROGRESS')
	`

	var count int
	err := r.q.QueryRowContext(ctx, query, driverID, from, to).Scan(&count)
	return count, err
}

// Update updates an existing booking. The pricing snapshot is intentionally
// not part of the update set: it is frozen at creation time.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET driver_id = $1, vehicle_id = $2, status = $3,
		    cancelled_at = $4, cancel_reason = $5
		WHERE id = $6
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(booking.DriverID),
		nullString(booking.VehicleID),
		booking.Status,
		nullTime(booking.CancelledAt),
		nullString(booking.CancelReason),
		booking.ID,
	)
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

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var driverID, vehicleID, cancelReason sql.NullString
	var cancelledAt sql.NullTime
	var durationMin int
	var breakdown []byte

	err := row.Scan(
		&booking.ID,
		&booking.ClientID,
		&driverID,
		&vehicleID,
		&booking.Pickup.Address,
		&booking.Pickup.Lat,
		&booking.Pickup.Lng,
		&booking.Pickup.Region,
		&booking.Dropoff.Address,
		&booking.Dropoff.Lat,
		&booking.Dropoff.Lng,
		&booking.Dropoff.Region,
		&booking.ScheduledAt,
		&booking.Pricing.DistanceKm,
		&durationMin,
		&booking.Pricing.BasePrice,
		&breakdown,
		&booking.Pricing.TotalPrice,
		&booking.VehicleClass,
		&booking.PassengerCount,
		&booking.Luggage,
		&booking.SpecialRequests,
		&booking.Status,
		&cancelledAt,
		&cancelReason,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Pricing.EstimatedDuration = time.Duration(durationMin) * time.Minute
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &booking.Pricing.Surcharges); err != nil {
			return nil, err
		}
	}
	if driverID.Valid {
		booking.DriverID = driverID.String
	}
	if vehicleID.Valid {
		booking.VehicleID = vehicleID.String
	}
	if cancelledAt.Valid {
		booking.CancelledAt = cancelledAt.Time
	}
	if cancelReason.Valid {
		booking.CancelReason = cancelReason.String
	}

	return &booking, nil
}
