package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	_ "time/tzdata"

	"hamsafar/internal/api"
	"hamsafar/internal/api/handlers"
	"hamsafar/internal/api/middleware"
	"hamsafar/internal/app"
	"hamsafar/internal/config"
	"hamsafar/internal/live"
	"hamsafar/internal/notify"
	"hamsafar/internal/receipt"
	"hamsafar/internal/repository/collection"
	"hamsafar/internal/services"
	"hamsafar/internal/session"
	"hamsafar/internal/storage"
	"hamsafar/internal/textgen"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to load timezone: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()

	// Initialize storage and repositories
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer store.Close()

	bookingRepo := collection.NewBookingRepository(store)
	routeRepo := collection.NewRouteRepository(store)
	locationRepo := collection.NewLocationRepository(store)
	sessions := session.NewManager(store, cfg.Auth, logger)

	// Optional collaborators. A nil pointer must not be stored in an interface
	// variable, or the nil checks downstream stop working.
	var generator services.TextGenerator
	gemini, err := textgen.New(ctx, cfg.TextGen)
	if err != nil {
		logger.Warn("text generation disabled", zap.Error(err))
	} else if gemini != nil {
		generator = gemini
	}

	var composer services.NotificationComposer = services.TemplateComposer{}
	if generator != nil {
		composer = services.NewEnhancedComposer(generator, cfg.Notification.ComposeTimeout, logger)
	}

	var channels []services.Channel
	telegram, err := notify.NewTelegramChannel(cfg.Notification.TelegramBotToken, cfg.Notification.TelegramChatID)
	if err != nil {
		logger.Warn("telegram channel disabled", zap.Error(err))
	} else if telegram != nil {
		channels = append(channels, telegram)
	}

	// Initialize services
	notificationService := services.NewNotificationService(
		composer,
		cfg.Notification.WhatsAppGroupLink,
		cfg.Notification.DeliveryTimeout,
		logger,
		channels...,
	)
	registryService := services.NewRegistryService(routeRepo, locationRepo, logger)
	bookingService := services.NewBookingService(bookingRepo, registryService, notificationService, cfg.Booking, loc, logger)
	adminService := services.NewAdminService(bookingRepo, cfg.Booking.StrictRideTransitions, logger)
	tipsService := services.NewTipsService(generator, cfg.TextGen.Timeout, logger)
	hub := live.NewHub(bookingService, tipsService, cfg.Live, logger)
	receipts, err := receipt.NewRenderer(cfg.Receipt.FontPath)
	if err != nil {
		logger.Fatal("failed to load receipt font", zap.String("path", cfg.Receipt.FontPath), zap.Error(err))
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(sessions, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, tipsService, receipts, loc, logger)
	adminHandler := handlers.NewAdminHandler(adminService, logger)
	registryHandler := handlers.NewRegistryHandler(registryService, logger)
	liveHandler := handlers.NewLiveHandler(hub, logger)

	// Setup router
	router := api.NewRouter(authHandler, bookingHandler, adminHandler, registryHandler, liveHandler, sessions, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger), middleware.CORS(cfg.Server.AllowedOrigins))
	router.Setup(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting hamsafar server",
			zap.String("addr", cfg.Server.Port),
			zap.String("storage", cfg.Storage.Driver),
			zap.Bool("textgen", generator != nil),
			zap.Int("channels", len(channels)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	hub.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	notificationService.Wait()
}
