package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hamsafar/internal/api/handlers"
	"hamsafar/internal/api/middleware"
)

type Router struct {
	authHandler     *handlers.AuthHandler
	bookingHandler  *handlers.BookingHandler
	adminHandler    *handlers.AdminHandler
	registryHandler *handlers.RegistryHandler
	liveHandler     *handlers.LiveHandler
	authenticator   middleware.Authenticator
	logger          *zap.Logger
}

func NewRouter(
	authHandler *handlers.AuthHandler,
	bookingHandler *handlers.BookingHandler,
	adminHandler *handlers.AdminHandler,
	registryHandler *handlers.RegistryHandler,
	liveHandler *handlers.LiveHandler,
	authenticator middleware.Authenticator,
	logger *zap.Logger,
) *Router {
	return &Router{
		authHandler:     authHandler,
		bookingHandler:  bookingHandler,
		adminHandler:    adminHandler,
		registryHandler: registryHandler,
		liveHandler:     liveHandler,
		authenticator:   authenticator,
		logger:          logger,
	}
}

// Setup registers every route. Global middleware (request id, logging, CORS)
// is installed by the caller so tests can run without it.
func (r *Router) Setup(engine *gin.Engine) {
	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	engine.POST("/auth/login", r.authHandler.Login)

	// Protected routes
	api := engine.Group("/")
	api.Use(middleware.Auth(r.authenticator, r.logger))
	{
		api.GET("/auth/session", r.authHandler.Session)
		api.POST("/auth/logout", r.authHandler.Logout)

		// Shared reads for the booking form
		api.GET("/availability", r.bookingHandler.Availability)
		api.GET("/tips", r.bookingHandler.Tips)
		api.GET("/routes", r.registryHandler.ListRoutes)
		api.GET("/locations", r.registryHandler.ListLocations)
		api.GET("/bookings/:id/receipt", r.bookingHandler.Receipt)
		api.GET("/ws/booking-form", r.liveHandler.BookingForm)

		// Customer endpoints
		customerRoutes := api.Group("/bookings")
		customerRoutes.Use(middleware.RequireCustomer())
		{
			customerRoutes.GET("/draft", r.bookingHandler.NewDraft)
			customerRoutes.GET("/urgent-slots", r.bookingHandler.UrgentSlots)
			customerRoutes.POST("", r.bookingHandler.Submit)
			customerRoutes.GET("/mine", r.bookingHandler.Mine)
		}

		// Admin endpoints
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.RequireAdmin())
		{
			adminRoutes.GET("/bookings", r.adminHandler.List)
			adminRoutes.PATCH("/bookings/:id/status", r.adminHandler.SetStatus)
			adminRoutes.PATCH("/bookings/:id/service-status", r.adminHandler.SetServiceStatus)
			adminRoutes.PATCH("/bookings/:id/ride-status", r.adminHandler.SetRideStatus)
			adminRoutes.POST("/bookings/:id/driver", r.adminHandler.AssignDriver)
			adminRoutes.DELETE("/bookings/:id", r.adminHandler.Remove)

			adminRoutes.POST("/routes", r.registryHandler.AddRoute)
			adminRoutes.PATCH("/routes/:id/toggle", r.registryHandler.ToggleRoute)
			adminRoutes.DELETE("/routes/:id", r.registryHandler.RemoveRoute)

			adminRoutes.POST("/locations", r.registryHandler.AddLocation)
			adminRoutes.DELETE("/locations/:id", r.registryHandler.RemoveLocation)
		}
	}
}
