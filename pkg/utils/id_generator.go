// Package utils provides small helpers shared across the application: ids,
// the time-of-day rules of the booking form, and a debouncer.
//
// Go Learning Note — "pkg/" Directory Convention:
// Code under pkg/ is intended to be importable by external projects (unlike
// internal/ which is compiler-enforced private). This is a community convention,
// not a Go language feature. Nothing here knows about HTTP or storage.
package utils

import (
	"github.com/google/uuid"
)

// GenerateID creates a new UUID v4 string for bookings, routes, locations,
// users and session ids.
//
// Go Learning Note — "github.com/google/uuid":
// uuid.New() creates a random (v4) UUID. Ids can be minted without a central
// counter, which suits collections that are rewritten as a whole: there is no
// sequence to keep in sync with the stored document.
func GenerateID() string {
	return uuid.New().String()
}
