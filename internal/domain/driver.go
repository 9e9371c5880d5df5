package domain

import "time"

// DriverProfile represents a driver's onboarding record.
// A driver participates in matching only when approved and available.
type DriverProfile struct {
	ID          string
	UserID      string
	LicenseNo   string
	IsApproved  bool
	IsAvailable bool
	Rating      float64
	CreatedAt   time.Time
}

// DriverCandidate is a matching candidate: an approved, available driver
// together with one of its active vehicles of the requested class and the
// denormalized display fields the client response needs. It is derived by
// the candidate query and never persisted.
type DriverCandidate struct {
	DriverID  string
	UserID    string
	VehicleID string
	Name      string
	Phone     string
	AvatarURL string
}
