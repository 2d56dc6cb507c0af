package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hamsafar/internal/domain/entities"
	"hamsafar/internal/services"
)

type AdminHandler struct {
	adminService *services.AdminService
	logger       *zap.Logger
}

func NewAdminHandler(adminService *services.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{adminService: adminService, logger: logger}
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignDriverRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// List handles GET /admin/bookings
func (h *AdminHandler) List(c *gin.Context) {
	bookings, err := h.adminService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// SetStatus handles PATCH /admin/bookings/:id/status
func (h *AdminHandler) SetStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	// The service rejects values outside the enum.
	status, _ := entities.ParseBookingStatus(req.Status)

	found, err := h.adminService.SetStatus(c.Request.Context(), c.Param("id"), status)
	h.respondMutation(c, found, err)
}

// SetServiceStatus handles PATCH /admin/bookings/:id/service-status
func (h *AdminHandler) SetServiceStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	status, _ := entities.ParseServiceStatus(req.Status)

	found, err := h.adminService.SetServiceStatus(c.Request.Context(), c.Param("id"), status)
	h.respondMutation(c, found, err)
}

// SetRideStatus handles PATCH /admin/bookings/:id/ride-status
func (h *AdminHandler) SetRideStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	status, _ := entities.ParseRideStatus(req.Status)

	found, err := h.adminService.SetRideStatus(c.Request.Context(), c.Param("id"), status)
	h.respondMutation(c, found, err)
}

// AssignDriver handles POST /admin/bookings/:id/driver
func (h *AdminHandler) AssignDriver(c *gin.Context) {
	var req AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	found, err := h.adminService.AssignDriver(c.Request.Context(), c.Param("id"), req.Name, req.Phone)
	h.respondMutation(c, found, err)
}

// Remove handles DELETE /admin/bookings/:id?confirm=true
func (h *AdminHandler) Remove(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))

	found, err := h.adminService.Remove(c.Request.Context(), c.Param("id"), confirmed)
	h.respondMutation(c, found, err)
}

// respondMutation answers with the updated booking so the admin view can
// refresh a single row.
func (h *AdminHandler) respondMutation(c *gin.Context, found bool, err error) {
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !found {
		respondFound(c, false, nil)
		return
	}

	booking, ok, err := h.adminService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !ok {
		// Removed.
		respondFound(c, true, nil)
		return
	}
	respondFound(c, true, gin.H{"found": true, "booking": booking})
}
