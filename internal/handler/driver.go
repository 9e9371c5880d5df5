package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transfera/internal/domain"
	"transfera/internal/middleware"
	"transfera/internal/repository"
	"transfera/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService *service.DriverService
	driverRepo    repository.DriverRepository
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService, driverRepo repository.DriverRepository) *DriverHandler {
	return &DriverHandler{
		driverService: driverService,
		driverRepo:    driverRepo,
	}
}

// RegisterDriverRequest is the HTTP request body for registering a driver.
type RegisterDriverRequest struct {
	LicenseNo    string `json:"licenseNo" binding:"required"`
	VehicleClass string `json:"vehicleClass" binding:"required"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	PlateNo      string `json:"plateNo" binding:"required"`
	Seats        int    `json:"seats" binding:"required,min=1,max=16"`
}

// DriverProfileResponse is the HTTP shape of a driver profile.
type DriverProfileResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	LicenseNo   string  `json:"licenseNo"`
	IsApproved  bool    `json:"isApproved"`
	IsAvailable bool    `json:"isAvailable"`
	Rating      float64 `json:"rating"`
}

// Register handles POST /v1/drivers/register
func (h *DriverHandler) Register(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	profile, vehicle, err := h.driverService.RegisterDriver(c.Request.Context(), service.RegisterDriverRequest{
		UserID:       middleware.CallerID(c),
		Role:         middleware.CallerRole(c),
		LicenseNo:    req.LicenseNo,
		VehicleClass: domain.VehicleClass(req.VehicleClass),
		Make:         req.Make,
		Model:        req.Model,
		PlateNo:      req.PlateNo,
		Seats:        req.Seats,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"profile": toDriverProfileResponse(profile),
		"vehicle": gin.H{
			"id":      vehicle.ID,
			"class":   string(vehicle.Class),
			"plateNo": vehicle.PlateNo,
			"seats":   vehicle.Seats,
		},
	})
}

// AvailabilityRequest is the HTTP request body for toggling availability.
type AvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// SetAvailability handles POST /v1/drivers/availability
func (h *DriverHandler) SetAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	profile, err := h.driverService.SetAvailability(
		c.Request.Context(),
		middleware.CallerID(c),
		middleware.CallerRole(c),
		*req.Available,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDriverProfileResponse(profile))
}

// Approve handles POST /v1/drivers/:id/approve
func (h *DriverHandler) Approve(c *gin.Context) {
	err := h.driverService.ApproveDriver(c.Request.Context(), middleware.CallerRole(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "approved"})
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	profiles, err := h.driverRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		response = append(response, toDriverProfileResponse(p))
	}

	c.JSON(http.StatusOK, response)
}

func toDriverProfileResponse(p *domain.DriverProfile) DriverProfileResponse {
	return DriverProfileResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		LicenseNo:   p.LicenseNo,
		IsApproved:  p.IsApproved,
		IsAvailable: p.IsAvailable,
		Rating:      p.Rating,
	}
}
