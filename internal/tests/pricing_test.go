package tests

import (
	"math"
	"testing"
	"time"

	"transfera/internal/domain"
	"transfera/internal/service"
)

var (
	hkCentral = domain.Location{Address: "Central, Hong Kong", Lat: 22.2819, Lng: 114.1582, Region: "HK"}
	hkKowloon = domain.Location{Address: "Tsim Sha Tsui, Kowloon", Lat: 22.2988, Lng: 114.1722, Region: "HK"}
	szFutian  = domain.Location{Address: "Futian, Shenzhen", Lat: 22.5431, Lng: 114.0579, Region: "CHINA"}
)

// A Wednesday afternoon: no night or weekend surcharge.
var weekdayAfternoon = time.Date(2026, 9, 16, 14, 0, 0, 0, time.UTC)

func TestEstimateDeterministic(t *testing.T) {
	t.Parallel()

	pricing := service.NewPricingService()

	first, err := pricing.Estimate(hkCentral, szFutian, domain.VehicleClassExecutive, weekdayAfternoon)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	second, err := pricing.Estimate(hkCentral, szFutian, domain.VehicleClassExecutive, weekdayAfternoon)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}

	if first.TotalPrice != second.TotalPrice || first.DistanceKm != second.DistanceKm {
		t.Errorf("identical inputs produced different snapshots: %+v vs %+v", first, second)
	}
}

func TestEstimateTotalIsBasePlusSurcharges(t *testing.T) {
	t.Parallel()

	pricing := service.NewPricingService()

	tests := []struct {
		name        string
		pickup      domain.Location
		dropoff     domain.Location
		class       domain.VehicleClass
		scheduledAt time.Time
	}{
		{"business same region weekday", hkCentral, hkKowloon, domain.VehicleClassBusiness, weekdayAfternoon},
		{"executive cross border weekday", hkCentral, szFutian, domain.VehicleClassExecutive, weekdayAfternoon},
		{"luxury cross border night", hkCentral, szFutian, domain.VehicleClassLuxury, time.Date(2026, 9, 16, 23, 30, 0, 0, time.UTC)},
		{"suv weekend", hkCentral, hkKowloon, domain.VehicleClassSUV, time.Date(2026, 9, 19, 14, 0, 0, 0, time.UTC)},
		{"van cross border night weekend", hkCentral, szFutian, domain.VehicleClassVan, time.Date(2026, 9, 19, 23, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snapshot, err := pricing.Estimate(tt.pickup, tt.dropoff, tt.class, tt.scheduledAt)
			if err != nil {
				t.Fatalf("Estimate() error = %v", err)
			}

			want := snapshot.BasePrice + snapshot.SurchargeTotal()
			if math.Abs(snapshot.TotalPrice-want) > 0.001 {
				t.Errorf("TotalPrice = %v, want base %v + surcharges %v", snapshot.TotalPrice, snapshot.BasePrice, snapshot.SurchargeTotal())
			}
			if snapshot.BasePrice <= 0 {
				t.Errorf("BasePrice = %v, want > 0", snapshot.BasePrice)
			}
			if snapshot.DistanceKm <= 0 {
				t.Errorf("DistanceKm = %v, want > 0", snapshot.DistanceKm)
			}
		})
	}
}

func TestEstimateSameRoute(t *testing.T) {
	t.Parallel()

	pricing := service.NewPricingService()

	_, err := pricing.Estimate(hkCentral, hkCentral, domain.VehicleClassBusiness, weekdayAfternoon)
	if err != service.ErrSameRoute {
		t.Errorf("Estimate() error = %v, want ErrSameRoute", err)
	}
}

func TestEstimateUnknownClass(t *testing.T) {
	t.Parallel()

	pricing := service.NewPricingService()

	// The class check runs before the route check.
	_, err := pricing.Estimate(hkCentral, hkCentral, domain.VehicleClass("SEDAN"), weekdayAfternoon)
	if err != service.ErrInvalidVehicleClass {
		t.Errorf("Estimate() error = %v, want ErrInvalidVehicleClass", err)
	}
}

func TestEstimateCrossBorder(t *testing.T) {
	t.Parallel()

	pricing := service.NewPricingService()

	crossBorder, err := pricing.Estimate(hkCentral, szFutian, domain.VehicleClassBusiness, weekdayAfternoon)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}

	if !hasSurcharge(crossBorder.Surcharges, domain.SurchargeCrossBorder) {
		t.Error("expected CROSS_BORDER surcharge when regions differ")
	}

	// Same coordinates, but both endpoints tagged with the same region.
	domesticDropoff := szFutian
	domesticDropoff.Region = "HK"
	domestic, err := pricing.Estimate(hkCentral, domesticDropoff, domain.VehicleClassBusiness, weekdayAfternoon)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}

	if hasSurcharge(domestic.Surcharges, domain.SurchargeCrossBorder) {
		t.Error("unexpected CROSS_BORDER surcharge for same-region trip")
	}
	if got := crossBorder.EstimatedDuration - domestic.EstimatedDuration; got != 45*time.Minute {
		t.Errorf("cross-border duration buffer = %v, want 45m", got)
	}
}

func TestEstimateNightWindow(t *testing.T) {
	t.Parallel()

	pricing := service.NewPricingService()

	tests := []struct {
		name      string
		hour, min int
		wantNight bool
	}{
		{"just before window", 21, 59, false},
		{"window opens", 22, 0, true},
		{"middle of the night", 2, 30, true},
		{"last night minute", 5, 59, true},
		{"window closes", 6, 0, false},
		{"midday", 12, 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// A Wednesday, so the weekend surcharge never interferes.
			scheduledAt := time.Date(2026, 9, 16, tt.hour, tt.min, 0, 0, time.UTC)
			snapshot, err := pricing.Estimate(hkCentral, hkKowloon, domain.VehicleClassBusiness, scheduledAt)
			if err != nil {
				t.Fatalf("Estimate() error = %v", err)
			}

			if got := hasSurcharge(snapshot.Surcharges, domain.SurchargeNight); got != tt.wantNight {
				t.Errorf("night surcharge present = %v, want %v", got, tt.wantNight)
			}
		})
	}
}

func TestEstimateWeekend(t *testing.T) {
	t.Parallel()

	pricing := service.NewPricingService()

	tests := []struct {
		name        string
		day         int
		wantWeekend bool
	}{
		{"friday", 18, false},
		{"saturday", 19, true},
		{"sunday", 20, true},
		{"monday", 21, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scheduledAt := time.Date(2026, 9, tt.day, 14, 0, 0, 0, time.UTC)
			snapshot, err := pricing.Estimate(hkCentral, hkKowloon, domain.VehicleClassBusiness, scheduledAt)
			if err != nil {
				t.Fatalf("Estimate() error = %v", err)
			}

			if got := hasSurcharge(snapshot.Surcharges, domain.SurchargeWeekend); got != tt.wantWeekend {
				t.Errorf("weekend surcharge present = %v, want %v", got, tt.wantWeekend)
			}
		})
	}
}

func hasSurcharge(surcharges []domain.Surcharge, code domain.SurchargeCode) bool {
	for _, s := range surcharges {
		if s.Code == code {
			return true
		}
	}
	return false
}
