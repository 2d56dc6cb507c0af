package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"hamsafar/internal/domain"
	"hamsafar/internal/domain/entities"
	"hamsafar/internal/notify"
)

// TextGenerator is the hosted language model, seen from the services.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NotificationComposer turns a committed booking into the drivers' message.
type NotificationComposer interface {
	Compose(ctx context.Context, b *entities.Booking, u *entities.User) (string, error)
}

// Channel delivers a finished message somewhere drivers will read it.
type Channel interface {
	Name() string
	Send(ctx context.Context, message string) error
}

// TemplateComposer renders the fixed plain-text layout. It never fails.
type TemplateComposer struct{}

func (TemplateComposer) Compose(ctx context.Context, b *entities.Booking, u *entities.User) (string, error) {
	return RenderTemplate(b, u), nil
}

// RenderTemplate is the deterministic driver message. The Notes line only
// appears when the booking carries notes.
func RenderTemplate(b *entities.Booking, u *entities.User) string {
	var sb strings.Builder
	sb.WriteString("New Ride Request!\n")
	fmt.Fprintf(&sb, "Customer: %s\n", u.Name)
	fmt.Fprintf(&sb, "Phone: %s\n", u.Phone)
	fmt.Fprintf(&sb, "From: %s\n", b.Pickup)
	fmt.Fprintf(&sb, "To: %s\n", b.Destination)
	fmt.Fprintf(&sb, "Seats: %d\n", b.Seats)
	fmt.Fprintf(&sb, "Vehicle: %s\n", b.VehicleType)
	fmt.Fprintf(&sb, "When: %s at %s\n", b.Date, b.Time)
	fmt.Fprintf(&sb, "Payment: %s\n", b.PaymentMethod.Label())
	if notes := strings.TrimSpace(b.Notes); notes != "" {
		fmt.Fprintf(&sb, "Notes: %s\n", notes)
	}
	sb.WriteString("Drivers please reply if available!")
	return sb.String()
}

// EnhancedComposer asks the text generator for a friendlier message and falls
// back to the template on any error or empty answer.
type EnhancedComposer struct {
	generator TextGenerator
	fallback  NotificationComposer
	timeout   time.Duration
	logger    *zap.Logger
}

func NewEnhancedComposer(generator TextGenerator, timeout time.Duration, logger *zap.Logger) *EnhancedComposer {
	return &EnhancedComposer{
		generator: generator,
		fallback:  TemplateComposer{},
		timeout:   timeout,
		logger:    logger,
	}
}

func (c *EnhancedComposer) Compose(ctx context.Context, b *entities.Booking, u *entities.User) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.generator.Generate(genCtx, notificationPrompt(b, u))
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	if err == nil {
		err = fmt.Errorf("empty message")
	}
	c.logger.Warn("enhanced notification failed, using template",
		zap.String("booking_id", b.ID),
		zap.Error(domain.NotificationDeliveryError{Channel: "composer", Err: err}),
	)
	return c.fallback.Compose(ctx, b, u)
}

func notificationPrompt(b *entities.Booking, u *entities.User) string {
	notes := strings.TrimSpace(b.Notes)
	if notes == "" {
		notes = "None"
	}
	return fmt.Sprintf(`Generate a professional and clear WhatsApp booking message for a cab driver group.
Details:
- Customer: %s (%s)
- From: %s
- To: %s
- Seats Required: %d
- Vehicle: %s
- Date: %s
- Time: %s
- Payment: %s
- Additional Notes: %s

Make it punchy, using emojis for clarity. Ensure the pickup and destination are very prominent. Use Urdu and English mixed (Roman Urdu) for better local driver understanding if appropriate.`,
		u.Name, u.Phone, b.Pickup, b.Destination, b.Seats, b.VehicleType,
		b.Date, b.Time, b.PaymentMethod.Label(), notes)
}

// DriverNotification is what the customer gets back after a commit: the text
// that went to the drivers and a link to share it in the WhatsApp group.
type DriverNotification struct {
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsappUrl"`
}

// NotificationService composes driver messages and fans them out to the
// configured channels.
type NotificationService struct {
	composer        NotificationComposer
	channels        []Channel
	groupLink       string
	deliveryTimeout time.Duration
	logger          *zap.Logger
	wg              sync.WaitGroup
}

func NewNotificationService(
	composer NotificationComposer,
	groupLink string,
	deliveryTimeout time.Duration,
	logger *zap.Logger,
	channels ...Channel,
) *NotificationService {
	return &NotificationService{
		composer:        composer,
		channels:        channels,
		groupLink:       groupLink,
		deliveryTimeout: deliveryTimeout,
		logger:          logger,
	}
}

// Prepare composes the message for b. Composer failures are logged and the
// template is used instead, so Prepare always yields a message.
func (s *NotificationService) Prepare(ctx context.Context, b *entities.Booking, u *entities.User) DriverNotification {
	message, err := s.composer.Compose(ctx, b, u)
	if err != nil || strings.TrimSpace(message) == "" {
		s.logger.Warn("composer failed, using template",
			zap.String("booking_id", b.ID),
			zap.Error(domain.NotificationDeliveryError{Channel: "composer", Err: err}),
		)
		message = RenderTemplate(b, u)
	}
	return DriverNotification{
		Message:     message,
		WhatsAppURL: notify.WhatsAppLink(s.groupLink, message),
	}
}

// Dispatch sends n to every channel without waiting.
//
// Go Learning Note — Fire-and-Forget Goroutines:
// Each delivery gets its own goroutine and its own context, detached from the
// HTTP request that committed the booking; the request may finish long before
// Telegram answers. The WaitGroup exists only so shutdown and tests can wait
// for in-flight sends. There is a single attempt per channel.
func (s *NotificationService) Dispatch(bookingID string, n DriverNotification) {
	for _, ch := range s.channels {
		s.wg.Add(1)
		go func(ch Channel) {
			defer s.wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.deliveryTimeout)
			defer cancel()

			if err := ch.Send(ctx, n.Message); err != nil {
				s.logger.Error("driver notification not delivered",
					zap.String("booking_id", bookingID),
					zap.Error(domain.NotificationDeliveryError{Channel: ch.Name(), Err: err}),
				)
				return
			}
			s.logger.Info("driver notification delivered",
				zap.String("booking_id", bookingID),
				zap.String("channel", ch.Name()),
			)
		}(ch)
	}
}

// Wait blocks until every dispatched delivery has finished.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}
