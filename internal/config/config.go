// Package config centralizes all application configuration into typed structs.
//
// Go Learning Note — Configuration Management:
// Defaults live in struct literals (NewDefaultConfig) so tests can build a
// config without touching the environment. Load() then overlays environment
// variables, optionally seeded from a .env file via github.com/joho/godotenv.
// Typed structs rather than raw maps give compile-time safety for every
// setting the services read.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the top-level configuration container.
type Config struct {
	Environment  string
	Server       ServerConfig
	Storage      StorageConfig
	Auth         AuthConfig
	Booking      BookingConfig
	Notification NotificationConfig
	TextGen      TextGenConfig
	Live         LiveConfig
	Receipt      ReceiptConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// StorageConfig selects the backend that holds the persisted collections.
// Driver is one of memory, file, redis, postgres, s3.
type StorageConfig struct {
	Driver      string
	Dir         string
	RedisURL    string
	RedisPrefix string
	DatabaseDSN string
	S3Bucket    string
	S3Prefix    string
	S3Region    string
	S3Endpoint  string
}

// AuthConfig holds the session token settings and the fixed admin credential.
// The credential is a placeholder policy, not real authentication.
type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
	AdminPhone string
	AdminName  string
}

// BookingConfig holds the timing rules of the booking lifecycle.
// Service is available while OpenHour <= local hour < CloseHour.
type BookingConfig struct {
	Timezone              string
	OpenHour              int
	CloseHour             int
	LeadTime              time.Duration
	UrgentSlotOffset      time.Duration // first slot, relative to now
	UrgentSlotStep        time.Duration
	UrgentSlotCount       int
	UrgentSlotTolerance   time.Duration // how stale a picked slot may be
	StrictRideTransitions bool
}

type NotificationConfig struct {
	WhatsAppGroupLink string
	TelegramBotToken  string
	TelegramChatID    int64
	ComposeTimeout    time.Duration
	DeliveryTimeout   time.Duration
}

// TextGenConfig configures the optional text-generation collaborator. An
// empty APIKey disables it and every caller falls back to local behaviour.
type TextGenConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// ReceiptConfig points at an optional UTF-8 TrueType font for receipts.
// Without it receipts only render cp1252 text.
type ReceiptConfig struct {
	FontPath string
}

// LiveConfig drives the timers of an open booking form.
type LiveConfig struct {
	AvailabilityInterval time.Duration
	TipsDebounce         time.Duration
}

// NewDefaultConfig returns a Config populated with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Storage: StorageConfig{
			Driver:      "file",
			Dir:         "./data",
			RedisPrefix: "hamsafar:",
			S3Prefix:    "hamsafar/",
		},
		Auth: AuthConfig{
			JWTSecret:  "dev-secret-change-me",
			SessionTTL: 30 * 24 * time.Hour,
			AdminPhone: "03001234567",
			AdminName:  "admin",
		},
		Booking: BookingConfig{
			Timezone:            "Asia/Karachi",
			OpenHour:            6,
			CloseHour:           23,
			LeadTime:            48 * time.Hour,
			UrgentSlotOffset:    1 * time.Hour,
			UrgentSlotStep:      3 * time.Hour,
			UrgentSlotCount:     16,
			UrgentSlotTolerance: 15 * time.Minute,
		},
		Notification: NotificationConfig{
			WhatsAppGroupLink: "https://chat.whatsapp.com/D4vGHSI5EXgB679we7HWw8",
			ComposeTimeout:    8 * time.Second,
			DeliveryTimeout:   10 * time.Second,
		},
		TextGen: TextGenConfig{
			Model:   "gemini-2.5-flash",
			Timeout: 8 * time.Second,
		},
		Live: LiveConfig{
			AvailabilityInterval: 60 * time.Second,
			TipsDebounce:         1 * time.Second,
		},
	}
}

// Load reads .env (when present) and overlays environment variables on the
// defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := NewDefaultConfig()

	cfg.Environment = getEnv("ENV", cfg.Environment)

	if port := os.Getenv("PORT"); port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}

	cfg.Storage.Driver = strings.ToLower(getEnv("STORAGE_DRIVER", cfg.Storage.Driver))
	cfg.Storage.Dir = getEnv("STORAGE_DIR", cfg.Storage.Dir)
	cfg.Storage.RedisURL = getEnv("REDIS_URL", cfg.Storage.RedisURL)
	cfg.Storage.RedisPrefix = getEnv("REDIS_PREFIX", cfg.Storage.RedisPrefix)
	cfg.Storage.DatabaseDSN = getEnv("DB_DSN", cfg.Storage.DatabaseDSN)
	cfg.Storage.S3Bucket = getEnv("S3_BUCKET", cfg.Storage.S3Bucket)
	cfg.Storage.S3Prefix = getEnv("S3_PREFIX", cfg.Storage.S3Prefix)
	cfg.Storage.S3Region = getEnv("AWS_REGION", cfg.Storage.S3Region)
	cfg.Storage.S3Endpoint = getEnv("S3_ENDPOINT", cfg.Storage.S3Endpoint)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.AdminPhone = getEnv("ADMIN_PHONE", cfg.Auth.AdminPhone)
	cfg.Auth.AdminName = getEnv("ADMIN_NAME", cfg.Auth.AdminName)
	ttl, err := getDuration("SESSION_TTL", cfg.Auth.SessionTTL)
	if err != nil {
		return nil, err
	}
	cfg.Auth.SessionTTL = ttl

	cfg.Booking.Timezone = getEnv("TIMEZONE", cfg.Booking.Timezone)
	tolerance, err := getDuration("URGENT_SLOT_TOLERANCE", cfg.Booking.UrgentSlotTolerance)
	if err != nil {
		return nil, err
	}
	cfg.Booking.UrgentSlotTolerance = tolerance
	strict, err := getBool("STRICT_RIDE_TRANSITIONS", cfg.Booking.StrictRideTransitions)
	if err != nil {
		return nil, err
	}
	cfg.Booking.StrictRideTransitions = strict

	cfg.Notification.WhatsAppGroupLink = getEnv("WHATSAPP_GROUP_LINK", cfg.Notification.WhatsAppGroupLink)
	cfg.Notification.TelegramBotToken = getEnv("TELEGRAM_BOT_TOKEN", cfg.Notification.TelegramBotToken)
	if raw := os.Getenv("TELEGRAM_DRIVERS_CHAT_ID"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_DRIVERS_CHAT_ID: %w", err)
		}
		cfg.Notification.TelegramChatID = chatID
	}

	cfg.TextGen.APIKey = getEnv("GEMINI_API_KEY", cfg.TextGen.APIKey)
	cfg.TextGen.Model = getEnv("GEMINI_MODEL", cfg.TextGen.Model)

	cfg.Receipt.FontPath = getEnv("RECEIPT_FONT_PATH", cfg.Receipt.FontPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.Environment == "production" && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == NewDefaultConfig().Auth.JWTSecret) {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.Booking.OpenHour < 0 || c.Booking.CloseHour > 24 || c.Booking.OpenHour >= c.Booking.CloseHour {
		return fmt.Errorf("invalid service hours [%d, %d)", c.Booking.OpenHour, c.Booking.CloseHour)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.Storage.Driver {
	case "memory", "file":
	case "redis":
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis storage driver")
		}
	case "postgres":
		if c.Storage.DatabaseDSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres storage driver")
		}
	case "s3":
		if c.Storage.S3Bucket == "" || c.Storage.S3Region == "" {
			return fmt.Errorf("S3_BUCKET and AWS_REGION are required for the s3 storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

// Location resolves the booking time zone. All hour-of-day and date/time
// arithmetic of the lifecycle happens in this zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Booking.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
