package postgres

import (
	"context"
	"database/sql"
	"errors"

	"transfera/internal/domain"
	"transfera/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// Create adds a new driver profile.
func (r *DriverRepository) Create(ctx context.Context, profile *domain.DriverProfile) error {
	query := `
		INSERT INTO driver_profiles (id, user_id, license_no, is_approved, is_available, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		profile.ID,
		profile.UserID,
		profile.LicenseNo,
		profile.IsApproved,
		profile.IsAvailable,
		profile.Rating,
		profile.CreatedAt,
	)
	return err
}

// GetByID retrieves a driver profile by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.DriverProfile, error) {
	query := `
		SELECT id, user_id, COALESCE(license_no, ''), is_approved, is_available, rating, created_at
		FROM driver_profiles WHERE id = $1
	`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByUserID retrieves the driver profile owned by a user.
func (r *DriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.DriverProfile, error) {
	query := `
		SELECT id, user_id, COALESCE(license_no, ''), is_approved, is_available, rating, created_at
		FROM driver_profiles WHERE user_id = $1
	`
	return r.scanOne(r.q.QueryRowContext(ctx, query, userID))
}

// GetAll retrieves all driver profiles.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.DriverProfile, error) {
	query := `
		SELECT id, user_id, COALESCE(license_no, ''), is_approved, is_available, rating, created_at
		FROM driver_profiles ORDER BY id
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*domain.DriverProfile
	for rows.Next() {
		var p domain.DriverProfile
		if err := rows.Scan(&p.ID, &p.UserID, &p.LicenseNo, &p.IsApproved, &p.IsAvailable, &p.Rating, &p.CreatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}

// FindCandidates returns approved, available drivers owning at least one
// active vehicle of the requested class, ordered by driver ID. The ordering
// is the assignment tie-break: first eligible candidate wins.
func (r *DriverRepository) FindCandidates(ctx context.Context, class domain.VehicleClass) ([]*domain.DriverCandidate, error) {
	query := `
		SELECT DISTINCT ON (d.id)
			d.id, d.user_id, v.id,
			COALESCE(u.name, ''), COALESCE(u.phone, ''), COALESCE(u.avatar_url, '')
		FROM driver_profiles d
		JOIN vehicles v ON v.driver_id = d.id AND v.is_active AND v.class = $1
		JOIN users u ON u.id = d.user_id
		WHERE d.is_approved AND d.is_available
		ORDER BY d.id, v.id
	`

	rows, err := r.q.QueryContext(ctx, query, class)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []*domain.DriverCandidate
	for rows.Next() {
		var c domain.DriverCandidate
		if err := rows.Scan(&c.DriverID, &c.UserID, &c.VehicleID, &c.Name, &c.Phone, &c.AvatarURL); err != nil {
			return nil, err
		}
		candidates = append(candidates, &c)
	}
	return candidates, rows.Err()
}

// SetAvailability updates the availability flag of a driver.
func (r *DriverRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	return r.setFlag(ctx, `UPDATE driver_profiles SET is_available = $1 WHERE id = $2`, available, id)
}

// SetApproval updates the approval flag of a driver.
func (r *DriverRepository) SetApproval(ctx context.Context, id string, approved bool) error {
	return r.setFlag(ctx, `UPDATE driver_profiles SET is_approved = $1 WHERE id = $2`, approved, id)
}

func (r *DriverRepository) setFlag(ctx context.Context, query string, value bool, id string) error {
	result, err := r.q.ExecContext(ctx, query, value, id)
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

func (r *DriverRepository) scanOne(row *sql.Row) (*domain.DriverProfile, error) {
	var p domain.DriverProfile
	err := row.Scan(&p.ID, &p.UserID, &p.LicenseNo, &p.IsApproved, &p.IsAvailable, &p.Rating, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
