package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"hamsafar/internal/config"
	"hamsafar/internal/domain/entities"
	"hamsafar/internal/repository/collection"
	"hamsafar/internal/storage"
)

var pkt = time.FixedZone("PKT", 5*60*60)

type fakeGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

type fakeChannel struct {
	mu       sync.Mutex
	name     string
	err      error
	messages []string
}

func (c *fakeChannel) Name() string { return c.name }

func (c *fakeChannel) Send(ctx context.Context, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
	return c.err
}

func (c *fakeChannel) received() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}

type testEnv struct {
	bookings *collection.BookingRepository
	registry *RegistryService
	notifier *NotificationService
	channel  *fakeChannel
	booking  *BookingService
	admin    *AdminService
}

// setupBookingService wires the services over a memory store with the clock
// fixed at now.
func setupBookingService(now time.Time) *testEnv {
	store := storage.NewMemoryStore()
	cfg := config.NewDefaultConfig()
	logger := zap.NewNop()

	bookings := collection.NewBookingRepository(store)
	registry := NewRegistryService(
		collection.NewRouteRepository(store),
		collection.NewLocationRepository(store),
		logger,
	)
	channel := &fakeChannel{name: "fake"}
	notifier := NewNotificationService(TemplateComposer{}, cfg.Notification.WhatsAppGroupLink, time.Second, logger, channel)

	booking := NewBookingService(bookings, registry, notifier, cfg.Booking, pkt, logger)
	booking.SetClock(func() time.Time { return now })

	return &testEnv{
		bookings: bookings,
		registry: registry,
		notifier: notifier,
		channel:  channel,
		booking:  booking,
		admin:    NewAdminService(bookings, false, logger),
	}
}

func testCustomer() *entities.User {
	return entities.NewUser("user-1", "Sana", "03111234567", entities.RoleCustomer)
}

func draftAt(at time.Time) Draft {
	return Draft{
		Pickup:        "Lahore",
		Destination:   "Islamabad",
		Seats:         2,
		Date:          at.Format(entities.DateLayout),
		Time:          at.Format(entities.TimeLayout),
		VehicleType:   entities.VehicleCar,
		PaymentMethod: entities.PaymentPhysical,
	}
}

var errGenerator = errors.New("quota exceeded")
