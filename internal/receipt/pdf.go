// Package receipt renders the booking confirmation a customer can keep.
//
// Without a configured font the receipt uses the PDF core font Helvetica,
// which only covers cp1252: Urdu text comes out as placeholder glyphs. A
// UTF-8 TrueType font fixes the glyphs. gofpdf does not shape Arabic script,
// so Urdu letters are drawn unjoined and left to right even then.
package receipt

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"hamsafar/internal/domain/entities"
)

// Number is the short receipt number shown to customers: the first eight
// characters of the booking id, upper-cased.
func Number(b *entities.Booking) string {
	n := strings.ReplaceAll(b.ID, "-", "")
	if len(n) > 8 {
		n = n[:8]
	}
	return strings.ToUpper(n)
}

const utf8Family = "receipt"

// Renderer draws receipts, optionally with a UTF-8 font.
type Renderer struct {
	font []byte
}

// NewRenderer loads the TrueType font at fontPath. An empty path keeps the
// cp1252 core font.
func NewRenderer(fontPath string) (*Renderer, error) {
	if fontPath == "" {
		return &Renderer{}, nil
	}
	font, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read receipt font: %w", err)
	}
	return &Renderer{font: font}, nil
}

// Render produces a one-page A4 PDF and a download filename for b. Times are
// shown in loc.
func (r *Renderer) Render(b *entities.Booking, loc *time.Location) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Hamsafar Booking Receipt", true)

	family := "Helvetica"
	tr := func(s string) string { return s }
	if r.font != nil {
		for _, style := range []string{"", "B", "I"} {
			pdf.AddUTF8FontFromBytes(utf8Family, style, r.font)
		}
		family = utf8Family
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddPage()

	pdf.SetFont(family, "B", 18)
	pdf.Cell(0, 10, "Booking Confirmed!")
	pdf.Ln(9)
	pdf.SetFont(family, "", 11)
	pdf.Cell(0, 7, "Receipt #"+Number(b))
	pdf.Ln(12)

	section := func(title string, lines ...string) {
		pdf.SetFont(family, "B", 12)
		pdf.Cell(0, 7, title)
		pdf.Ln(7)
		pdf.SetFont(family, "", 12)
		for _, l := range lines {
			pdf.Cell(0, 7, tr(l))
			pdf.Ln(7)
		}
		pdf.Ln(3)
	}

	section("Passenger Details",
		fmt.Sprintf("Name        : %s", b.UserName),
		fmt.Sprintf("Phone       : %s", b.UserPhone),
	)
	section("Trip",
		fmt.Sprintf("Pickup      : %s", b.Pickup),
		fmt.Sprintf("Destination : %s", b.Destination),
	)

	details := []string{
		fmt.Sprintf("Date        : %s", b.Date),
		fmt.Sprintf("Time        : %s", b.Time),
		fmt.Sprintf("Seats       : %d", b.Seats),
		fmt.Sprintf("Vehicle     : %s", b.VehicleType),
		fmt.Sprintf("Payment     : %s", b.PaymentMethod.Label()),
		fmt.Sprintf("Service     : %s", b.ServiceStatus),
	}
	if b.ServiceType != "" {
		details = append(details, fmt.Sprintf("Route type  : %s", b.ServiceType))
	}
	if b.Urgent {
		details = append(details, "Urgent slot : yes")
	}
	if b.HasDriver() {
		details = append(details, fmt.Sprintf("Driver      : %s (%s)", b.DriverName, b.DriverPhone))
	}
	section("Booking", details...)

	if notes := strings.TrimSpace(b.Notes); notes != "" {
		pdf.SetFont(family, "B", 12)
		pdf.Cell(0, 7, "Notes")
		pdf.Ln(7)
		pdf.SetFont(family, "", 11)
		pdf.MultiCell(0, 6, tr(notes), "", "", false)
		pdf.Ln(3)
	}

	pdf.SetFont(family, "I", 10)
	pdf.Cell(0, 6, "Booked on "+b.CreatedAt.In(loc).Format("Jan 2, 2006 at 03:04 PM"))
	pdf.Ln(6)
	pdf.MultiCell(0, 6, "Drivers have been notified. You will be contacted once a driver confirms availability.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render receipt: %w", err)
	}

	filename := fmt.Sprintf("HAMSAFAR_%s_%s.pdf", Number(b), safeFilenamePart(b.UserName))
	return buf.Bytes(), filename, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func safeFilenamePart(s string) string {
	s = unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(s), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "customer"
	}
	return s
}
