package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"transfera/internal/domain"
	"transfera/internal/middleware"
	"transfera/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// LocationPayload is one trip endpoint in the request body. Lat/Lng carry no
// required tag: zero is a legal coordinate and presence is enforced by the
// range checks in the service layer.
type LocationPayload struct {
	Address string  `json:"address" binding:"required"`
	Lat     float64 `json:"lat" binding:"min=-90,max=90"`
	Lng     float64 `json:"lng" binding:"min=-180,max=180"`
	Type    string  `json:"type" binding:"required"`
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	PickupLocation  LocationPayload `json:"pickupLocation" binding:"required"`
	DropoffLocation LocationPayload `json:"dropoffLocation" binding:"required"`
	ScheduledDate   time.Time       `json:"scheduledDate" binding:"required"`
	VehicleType     string          `json:"vehicleType" binding:"required"`
	PassengerCount  int             `json:"passengerCount" binding:"required,min=1,max=8"`
	Luggage         string          `json:"luggage,omitempty"`
	SpecialRequests string          `json:"specialRequests,omitempty"`
}

// DriverPayload is the denormalized driver block on a booking response.
type DriverPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar,omitempty"`
}

// SurchargePayload is one pricing breakdown line.
type SurchargePayload struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

// BookingPayload is the HTTP shape of a booking.
type BookingPayload struct {
	ID                   string             `json:"id"`
	PickupLocation       LocationPayload    `json:"pickupLocation"`
	DropoffLocation      LocationPayload    `json:"dropoffLocation"`
	ScheduledDate        time.Time          `json:"scheduledDate"`
	VehicleType          string             `json:"vehicleType"`
	PassengerCount       int                `json:"passengerCount"`
	Luggage              string             `json:"luggage,omitempty"`
	SpecialRequests      string             `json:"specialRequests,omitempty"`
	DistanceKm           float64            `json:"distanceKm"`
	EstimatedDurationMin int                `json:"estimatedDurationMin"`
	BasePrice            float64            `json:"basePrice"`
	Surcharges           []SurchargePayload `json:"surcharges"`
	TotalPrice           float64            `json:"totalPrice"`
	Status               string             `json:"status"`
	Driver               *DriverPayload     `json:"driver,omitempty"`
	VehicleID            string             `json:"vehicleId,omitempty"`
	CancelledAt          string             `json:"cancelledAt,omitempty"`
	CancelReason         string             `json:"cancelReason,omitempty"`
	CreatedAt            time.Time          `json:"createdAt"`
}

// CreateBookingResponse is the HTTP response for creating a booking.
type CreateBookingResponse struct {
	Message string         `json:"message"`
	Booking BookingPayload `json:"booking"`
}

// Create handles POST /v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	result, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		ClientID:        middleware.CallerID(c),
		Role:            middleware.CallerRole(c),
		Pickup:          toLocation(req.PickupLocation),
		Dropoff:         toLocation(req.DropoffLocation),
		ScheduledAt:     req.ScheduledDate,
		VehicleClass:    domain.VehicleClass(req.VehicleType),
		PassengerCount:  req.PassengerCount,
		Luggage:         req.Luggage,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Booking created, awaiting driver assignment"
	if result.Driver != nil {
		message = "Booking confirmed with driver"
	}

	c.JSON(http.StatusOK, CreateBookingResponse{
		Message: message,
		Booking: toBookingPayload(result.Booking, result.Driver),
	})
}

// PaginationPayload describes one page of a listing.
type PaginationPayload struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ListBookingsResponse is the HTTP response for listing bookings.
type ListBookingsResponse struct {
	Bookings   []BookingPayload  `json:"bookings"`
	Pagination PaginationPayload `json:"pagination"`
}

// List handles GET /v1/bookings?page&limit&status
func (h *BookingHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	status, err := service.ValidateBookingStatus(c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	bookings, total, err := h.bookingService.ListBookings(c.Request.Context(), service.ListBookingsRequest{
		CallerID: middleware.CallerID(c),
		Role:     middleware.CallerRole(c),
		Status:   status,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	payloads := make([]BookingPayload, 0, len(bookings))
	for _, b := range bookings {
		payloads = append(payloads, toBookingPayload(b, nil))
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	c.JSON(http.StatusOK, ListBookingsResponse{
		Bookings: payloads,
		Pagination: PaginationPayload{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
}

// Get handles GET /v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	booking, driver, err := h.bookingService.GetBooking(
		c.Request.Context(),
		middleware.CallerID(c),
		middleware.CallerRole(c),
		c.Param("id"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingPayload(booking, driver))
}

// CancelBookingRequest is the HTTP request body for cancelling a booking.
type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Cancel handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondValidationError(c, err.Error())
		return
	}

	booking, err := h.bookingService.CancelBooking(
		c.Request.Context(),
		middleware.CallerID(c),
		middleware.CallerRole(c),
		c.Param("id"),
		req.Reason,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingPayload(booking, nil))
}

func toLocation(p LocationPayload) domain.Location {
	return domain.Location{
		Address: p.Address,
		Lat:     p.Lat,
		Lng:     p.Lng,
		Region:  p.Type,
	}
}

func toLocationPayload(l domain.Location) LocationPayload {
	return LocationPayload{
		Address: l.Address,
		Lat:     l.Lat,
		Lng:     l.Lng,
		Type:    l.Region,
	}
}

func toBookingPayload(b *domain.Booking, driver *domain.DriverCandidate) BookingPayload {
	surcharges := make([]SurchargePayload, 0, len(b.Pricing.Surcharges))
	for _, s := range b.Pricing.Surcharges {
		surcharges = append(surcharges, SurchargePayload{Code: string(s.Code), Amount: s.Amount})
	}

	payload := BookingPayload{
		ID:                   b.ID,
		PickupLocation:       toLocationPayload(b.Pickup),
		DropoffLocation:      toLocationPayload(b.Dropoff),
		ScheduledDate:        b.ScheduledAt,
		VehicleType:          string(b.VehicleClass),
		PassengerCount:       b.PassengerCount,
		Luggage:              b.Luggage,
		SpecialRequests:      b.SpecialRequests,
		DistanceKm:           b.Pricing.DistanceKm,
		EstimatedDurationMin: int(b.Pricing.EstimatedDuration.Minutes()),
		BasePrice:            b.Pricing.BasePrice,
		Surcharges:           surcharges,
		TotalPrice:           b.Pricing.TotalPrice,
		Status:               string(b.Status),
		VehicleID:            b.VehicleID,
		CreatedAt:            b.CreatedAt,
	}

	if driver != nil {
		payload.Driver = &DriverPayload{
			ID:     driver.DriverID,
			Name:   driver.Name,
			Phone:  driver.Phone,
			Avatar: driver.AvatarURL,
		}
	}

	if !b.CancelledAt.IsZero() {
		payload.CancelledAt = b.CancelledAt.Format(time.RFC3339)
		payload.CancelReason = b.CancelReason
	}

	return payload
}
