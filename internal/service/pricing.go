package service

import (
	"math"
	"time"

	"transfera/internal/domain"
)

const (
	earthRadiusKm = 6371.0

	// Fixed allowance for the border checkpoint when pickup and dropoff
	// regions differ.
	borderCrossingBuffer = 45 * time.Minute

	nightSurcharge   = 120.0
	weekendSurcharge = 80.0
)

// classRate holds the pricing parameters for one vehicle class.
type classRate struct {
	BaseFare      float64
	PerKm         float64
	CruiseSpeedKm float64 // average km/h used for the duration estimate
	CrossBorder   float64
}

var classRates = map[domain.VehicleClass]classRate{
	domain.VehicleClassBusiness:  {BaseFare: 300, PerKm: 8.0, CruiseSpeedKm: 60, CrossBorder: 200},
	domain.VehicleClassExecutive: {BaseFare: 450, PerKm: 10.5, CruiseSpeedKm: 60, CrossBorder: 250},
	domain.VehicleClassLuxury:    {BaseFare: 700, PerKm: 14.0, CruiseSpeedKm: 60, CrossBorder: 300},
	domain.VehicleClassSUV:       {BaseFare: 400, PerKm: 9.5, CruiseSpeedKm: 55, CrossBorder: 220},
	domain.VehicleClassVan:       {BaseFare: 500, PerKm: 11.0, CruiseSpeedKm: 50, CrossBorder: 260},
}

// PricingService computes the frozen pricing snapshot for a booking.
// It is a pure computation: deterministic for identical inputs, no I/O.
type PricingService struct{}

// NewPricingService creates a new PricingService.
func NewPricingService() *PricingService {
	return &PricingService{}
}

// Estimate computes distance, duration and price for the given route.
// The result is frozen onto the booking at creation time and never
// recomputed afterwards.
func (s *PricingService) Estimate(pickup, dropoff domain.Location, class domain.VehicleClass, scheduledAt time.Time) (domain.PricingSnapshot, error) {
	rate, ok := classRates[class]
	if !ok {
		return domain.PricingSnapshot{}, ErrInvalidVehicleClass
	}

	if pickup.Lat == dropoff.Lat && pickup.Lng == dropoff.Lng {
		return domain.PricingSnapshot{}, ErrSameRoute
	}

	distanceKm := haversineKm(pickup.Lat, pickup.Lng, dropoff.Lat, dropoff.Lng)

	duration := time.Duration(distanceKm / rate.CruiseSpeedKm * float64(time.Hour)).Round(time.Minute)
	crossBorder := pickup.Region != dropoff.Region
	if crossBorder {
		duration += borderCrossingBuffer
	}

	basePrice := round2(rate.BaseFare + rate.PerKm*distanceKm)

	var surcharges []domain.Surcharge
	if crossBorder {
		surcharges = append(surcharges, domain.Surcharge{Code: domain.SurchargeCrossBorder, Amount: rate.CrossBorder})
	}
	if isNight(scheduledAt) {
		surcharges = append(surcharges, domain.Surcharge{Code: domain.SurchargeNight, Amount: nightSurcharge})
	}
	if isWeekend(scheduledAt) {
		surcharges = append(surcharges, domain.Surcharge{Code: domain.SurchargeWeekend, Amount: weekendSurcharge})
	}

	snapshot := domain.PricingSnapshot{
		DistanceKm:        round2(distanceKm),
		EstimatedDuration: duration,
		BasePrice:         basePrice,
		Surcharges:        surcharges,
	}
	snapshot.TotalPrice = round2(snapshot.BasePrice + snapshot.SurchargeTotal())

	return snapshot, nil
}

// haversineKm returns the great-circle distance between two points.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// isNight reports whether t falls in the 22:00-06:00 window.
func isNight(t time.Time) bool {
	h := t.Hour()
	return h >= 22 || h < 6
}

func isWeekend(t time.Time) bool {
	d := t.Weekday()
	return d == time.Saturday || d == time.Sunday
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
