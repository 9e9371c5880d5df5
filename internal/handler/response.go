package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"transfera/internal/repository"
	"transfera/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Internal errors are surfaced as an opaque message.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondValidationError sends a 400 with structured field details.
func respondValidationError(c *gin.Context, details ...string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: details})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrSameRoute),
		errors.Is(err, service.ErrInvalidVehicleClass),
		errors.Is(err, service.ErrInvalidPickupLocation),
		errors.Is(err, service.ErrInvalidDropoffLocation),
		errors.Is(err, service.ErrInvalidPassengerCount),
		errors.Is(err, service.ErrScheduledInPast),
		errors.Is(err, service.ErrInvalidClientID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidStatusFilter):
		return http.StatusBadRequest

	// Authorization errors
	case errors.Is(err, service.ErrRoleForbidden),
		errors.Is(err, service.ErrNotBookingOwner):
		return http.StatusForbidden

	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Conflict errors
	case errors.Is(err, service.ErrBookingNotCancellable),
		errors.Is(err, service.ErrDriverProfileExists),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
