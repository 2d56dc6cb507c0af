package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"hamsafar/internal/domain/entities"
)

func templateBooking() *entities.Booking {
	return &entities.Booking{
		ID:            "b1",
		Pickup:        "Lahore",
		Destination:   "Islamabad",
		Seats:         2,
		VehicleType:   entities.VehicleCar,
		Date:          "2025-01-01",
		Time:          "09:00",
		PaymentMethod: entities.PaymentPhysical,
	}
}

func TestRenderTemplate(t *testing.T) {
	msg := RenderTemplate(templateBooking(), testCustomer())

	for _, want := range []string{"From: Lahore", "To: Islamabad", "Seats: 2", "Payment: Cash", "Vehicle: car", "When: 2025-01-01 at 09:00"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in message:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "Notes:") {
		t.Errorf("Expected no Notes line:\n%s", msg)
	}

	want := "New Ride Request!\n" +
		"Customer: Sana\n" +
		"Phone: 03111234567\n" +
		"From: Lahore\n" +
		"To: Islamabad\n" +
		"Seats: 2\n" +
		"Vehicle: car\n" +
		"When: 2025-01-01 at 09:00\n" +
		"Payment: Cash\n" +
		"Drivers please reply if available!"
	if msg != want {
		t.Errorf("template layout changed:\n got %q\nwant %q", msg, want)
	}
}

func TestRenderTemplate_NotesAndOnlinePayment(t *testing.T) {
	b := templateBooking()
	b.Notes = "two suitcases"
	b.PaymentMethod = entities.PaymentOnline

	msg := RenderTemplate(b, testCustomer())
	if !strings.Contains(msg, "Notes: two suitcases\nDrivers please reply") {
		t.Errorf("Expected notes line before the closing line:\n%s", msg)
	}
	if !strings.Contains(msg, "Payment: Online") {
		t.Errorf("Expected online payment:\n%s", msg)
	}

	b.Notes = "   "
	if strings.Contains(RenderTemplate(b, testCustomer()), "Notes:") {
		t.Error("blank notes must not produce a Notes line")
	}
}

func TestEnhancedComposer(t *testing.T) {
	ctx := context.Background()

	gen := &fakeGenerator{text: "🚕 Lahore se Islamabad, 2 seats!"}
	c := NewEnhancedComposer(gen, time.Second, zap.NewNop())
	msg, err := c.Compose(ctx, templateBooking(), testCustomer())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if msg != gen.text {
		t.Errorf("Expected generated text, got %q", msg)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "From: Lahore") || !strings.Contains(gen.prompts[0], "Additional Notes: None") {
		t.Errorf("unexpected prompt %v", gen.prompts)
	}
}

func TestEnhancedComposer_FallsBack(t *testing.T) {
	ctx := context.Background()
	want := RenderTemplate(templateBooking(), testCustomer())

	for name, gen := range map[string]*fakeGenerator{
		"error": {err: errGenerator},
		"empty": {text: "  \n"},
	} {
		c := NewEnhancedComposer(gen, time.Second, zap.NewNop())
		msg, err := c.Compose(ctx, templateBooking(), testCustomer())
		if err != nil {
			t.Errorf("%s: fallback must not fail, got %v", name, err)
		}
		if msg != want {
			t.Errorf("%s: expected template fallback, got %q", name, msg)
		}
	}
}

type brokenComposer struct{}

func (brokenComposer) Compose(ctx context.Context, b *entities.Booking, u *entities.User) (string, error) {
	return "", errGenerator
}

func TestNotificationService_PrepareRecoversComposerFailure(t *testing.T) {
	svc := NewNotificationService(brokenComposer{}, "https://chat.whatsapp.com/x", time.Second, zap.NewNop())
	n := svc.Prepare(context.Background(), templateBooking(), testCustomer())

	if !strings.HasPrefix(n.Message, "New Ride Request!") {
		t.Errorf("Expected template message, got %q", n.Message)
	}
	if !strings.HasPrefix(n.WhatsAppURL, "https://chat.whatsapp.com/x?text=New+Ride+Request%21") {
		t.Errorf("unexpected url %s", n.WhatsAppURL)
	}
}

func TestNotificationService_DispatchFansOut(t *testing.T) {
	ok := &fakeChannel{name: "ok"}
	failing := &fakeChannel{name: "failing", err: errGenerator}
	svc := NewNotificationService(TemplateComposer{}, "https://chat.whatsapp.com/x", time.Second, zap.NewNop(), ok, failing)

	svc.Dispatch("b1", DriverNotification{Message: "hello drivers"})
	svc.Wait()

	if got := ok.received(); len(got) != 1 || got[0] != "hello drivers" {
		t.Errorf("ok channel got %v", got)
	}
	if got := failing.received(); len(got) != 1 {
		t.Errorf("failing channel should be attempted exactly once, got %d", len(got))
	}
}
