package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hamsafar/internal/services"
)

// RegistryHandler serves the admin-maintained routes and locations.
type RegistryHandler struct {
	registry *services.RegistryService
	logger   *zap.Logger
}

func NewRegistryHandler(registry *services.RegistryService, logger *zap.Logger) *RegistryHandler {
	return &RegistryHandler{registry: registry, logger: logger}
}

type AddRouteRequest struct {
	From        string `json:"from"`
	To          string `json:"to"`
	ServiceType string `json:"serviceType"`
}

type AddLocationRequest struct {
	Name string `json:"name"`
}

// ListRoutes handles GET /routes
func (h *RegistryHandler) ListRoutes(c *gin.Context) {
	routes, err := h.registry.ListRoutes(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// AddRoute handles POST /admin/routes
func (h *RegistryHandler) AddRoute(c *gin.Context) {
	var req AddRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	route, err := h.registry.AddRoute(c.Request.Context(), req.From, req.To, req.ServiceType)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, route)
}

// ToggleRoute handles PATCH /admin/routes/:id/toggle
func (h *RegistryHandler) ToggleRoute(c *gin.Context) {
	route, found, err := h.registry.ToggleRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondFound(c, found, gin.H{"found": true, "route": route})
}

// RemoveRoute handles DELETE /admin/routes/:id
func (h *RegistryHandler) RemoveRoute(c *gin.Context) {
	found, err := h.registry.RemoveRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondFound(c, found, nil)
}

// ListLocations handles GET /locations
func (h *RegistryHandler) ListLocations(c *gin.Context) {
	locations, err := h.registry.ListLocations(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// AddLocation handles POST /admin/locations
func (h *RegistryHandler) AddLocation(c *gin.Context) {
	var req AddLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	location, err := h.registry.AddLocation(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, location)
}

// RemoveLocation handles DELETE /admin/locations/:id
func (h *RegistryHandler) RemoveLocation(c *gin.Context) {
	found, err := h.registry.RemoveLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondFound(c, found, nil)
}
