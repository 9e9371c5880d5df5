package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func bindCreateBookingRequest(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req CreateBookingRequest
	return c.ShouldBindJSON(&req)
}

func TestCreateBookingRequestBindingZeroCoordinates(t *testing.T) {
	// Zero latitude (equator) and zero longitude (prime meridian) are legal
	// coordinates and must survive binding.
	body := `{
		"pickupLocation": {"address": "Null Island Pier", "lat": 0, "lng": 0, "type": "HK"},
		"dropoffLocation": {"address": "Central, Hong Kong", "lat": 22.2819, "lng": 114.1582, "type": "HK"},
		"scheduledDate": "2026-09-16T10:00:00Z",
		"vehicleType": "BUSINESS",
		"passengerCount": 2
	}`

	if err := bindCreateBookingRequest(t, body); err != nil {
		t.Errorf("ShouldBindJSON() error = %v, want zero coordinates accepted", err)
	}
}

func TestCreateBookingRequestBindingOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			"latitude above range",
			`{
				"pickupLocation": {"address": "A", "lat": 91, "lng": 0, "type": "HK"},
				"dropoffLocation": {"address": "B", "lat": 22.28, "lng": 114.15, "type": "HK"},
				"scheduledDate": "2026-09-16T10:00:00Z",
				"vehicleType": "BUSINESS",
				"passengerCount": 2
			}`,
		},
		{
			"longitude below range",
			`{
				"pickupLocation": {"address": "A", "lat": 22.28, "lng": 114.15, "type": "HK"},
				"dropoffLocation": {"address": "B", "lat": 22.53, "lng": -181, "type": "CHINA"},
				"scheduledDate": "2026-09-16T10:00:00Z",
				"vehicleType": "BUSINESS",
				"passengerCount": 2
			}`,
		},
		{
			"missing address",
			`{
				"pickupLocation": {"lat": 22.28, "lng": 114.15, "type": "HK"},
				"dropoffLocation": {"address": "B", "lat": 22.53, "lng": 114.06, "type": "CHINA"},
				"scheduledDate": "2026-09-16T10:00:00Z",
				"vehicleType": "BUSINESS",
				"passengerCount": 2
			}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if err := bindCreateBookingRequest(t, tt.body); err == nil {
				t.Error("ShouldBindJSON() error = nil, want binding failure")
			}
		})
	}
}
