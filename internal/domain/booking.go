package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// ActiveStatuses are the statuses that occupy a driver's schedule. A booking
// in any of these states counts against the driver's conflict window.
var ActiveStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
}

// Location is one endpoint of a trip. Coordinates arrive already resolved by
// the client-side geocoder; Region is a coarse tag ("HK", "CHINA") used for
// the cross-border surcharge.
type Location struct {
	Address string
	Lat     float64
	Lng     float64
	Region  string
}

// SurchargeCode identifies a pricing surcharge line.
type SurchargeCode string

const (
	SurchargeNight       SurchargeCode = "NIGHT"
	SurchargeWeekend     SurchargeCode = "WEEKEND"
	SurchargeCrossBorder SurchargeCode = "CROSS_BORDER"
)

// Surcharge is one line of the pricing breakdown.
type Surcharge struct {
	Code   SurchargeCode `json:"code"`
	Amount float64       `json:"amount"`
}

// PricingSnapshot is the set of price fields computed once at creation time
// and frozen onto the booking. Re-pricing is a distinct operation, never a
// recomputation of these fields.
type PricingSnapshot struct {
	DistanceKm        float64
	EstimatedDuration time.Duration
	BasePrice         float64
	Surcharges        []Surcharge
	TotalPrice        float64
}

// SurchargeTotal returns the sum of all surcharge lines.
func (p PricingSnapshot) SurchargeTotal() float64 {
	var total float64
	for _, s := range p.Surcharges {
		total += s.Amount
	}
	return total
}

// Booking represents one requested or confirmed trip.
// DriverID and VehicleID are set together or not at all.
type Booking struct {
	ID              string
	ClientID        string
	DriverID        string
	VehicleID       string
	Pickup          Location
	Dropoff         Location
	ScheduledAt     time.Time
	Pricing         PricingSnapshot
	VehicleClass    VehicleClass
	PassengerCount  int
	Luggage         string
	SpecialRequests string
	Status          BookingStatus
	CancelledAt     time.Time
	CancelReason    string
	CreatedAt       time.Time
}

// Assigned reports whether a driver/vehicle pair is bound to the booking.
func (b *Booking) Assigned() bool {
	return b.DriverID != "" && b.VehicleID != ""
}
