// Package entities defines the core domain models of the booking service.
// These structs represent the business concepts (User, Booking, Route,
// Location) and live in the innermost layer of the architecture: they have no
// dependencies on storage backends, HTTP, or external services.
package entities

import (
	"strings"
	"time"
)

// BookingStatus is the overall disposition of a booking.
//
// Go Learning Note — Typed String Enums:
// Go has no enum keyword. A named string type plus a const block gives
// compile-time distinction from plain strings while staying human-readable
// when serialized to JSON, which matters here because the persisted
// collections are plain JSON documents.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ServiceStatus records whether a driver confirmed availability for the trip.
type ServiceStatus string

const (
	ServiceStatusPending      ServiceStatus = "pending"
	ServiceStatusAvailable    ServiceStatus = "available"
	ServiceStatusNotAvailable ServiceStatus = "not-available"
)

// RideStatus tracks ride progress, independent of the booking status.
type RideStatus string

const (
	RideStatusPending        RideStatus = "pending"
	RideStatusDriverAssigned RideStatus = "driver-assigned"
	RideStatusOnTheWay       RideStatus = "on-the-way"
	RideStatusCompleted      RideStatus = "completed"
)

type VehicleType string

const (
	VehicleBike    VehicleType = "bike"
	VehicleCar     VehicleType = "car"
	VehicleVan     VehicleType = "van"
	VehicleHiace   VehicleType = "hiace"
	VehicleCoaster VehicleType = "coaster"
)

type PaymentMethod string

const (
	PaymentOnline   PaymentMethod = "online"
	PaymentPhysical PaymentMethod = "physical"
)

// ServiceType is inherited from a registered route when one matches the trip.
type ServiceType string

const (
	ServiceTypeLocal   ServiceType = "local"
	ServiceTypeSpecial ServiceType = "special"
)

// AllowedSeats is the fixed set of seat counts a booking may request.
var AllowedSeats = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 15, 20, 30, 40, 50}

// Layouts of the Date and Time fields of a booking.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

func (s ServiceStatus) Valid() bool {
	switch s {
	case ServiceStatusPending, ServiceStatusAvailable, ServiceStatusNotAvailable:
		return true
	}
	return false
}

func (s RideStatus) Valid() bool {
	switch s {
	case RideStatusPending, RideStatusDriverAssigned, RideStatusOnTheWay, RideStatusCompleted:
		return true
	}
	return false
}

func (v VehicleType) Valid() bool {
	switch v {
	case VehicleBike, VehicleCar, VehicleVan, VehicleHiace, VehicleCoaster:
		return true
	}
	return false
}

func (p PaymentMethod) Valid() bool {
	return p == PaymentOnline || p == PaymentPhysical
}

// Label is the customer-facing payment wording used in driver messages.
func (p PaymentMethod) Label() string {
	if p == PaymentOnline {
		return "Online"
	}
	return "Cash"
}

func (t ServiceType) Valid() bool {
	return t == ServiceTypeLocal || t == ServiceTypeSpecial
}

// ValidSeats reports whether n is one of AllowedSeats.
func ValidSeats(n int) bool {
	for _, s := range AllowedSeats {
		if s == n {
			return true
		}
	}
	return false
}

// ParseBookingStatus normalizes raw input into a BookingStatus.
func ParseBookingStatus(raw string) (BookingStatus, bool) {
	s := BookingStatus(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

func ParseServiceStatus(raw string) (ServiceStatus, bool) {
	s := ServiceStatus(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

func ParseRideStatus(raw string) (RideStatus, bool) {
	s := RideStatus(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

func ParseServiceType(raw string) (ServiceType, bool) {
	s := ServiceType(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// Booking is the central domain entity: a single trip request submitted by a
// customer. Trip fields are fixed at submission; only the status fields and
// the driver assignment change afterwards, and only through the admin surface.
//
// The owner fields are a copy of the session user taken at submission time,
// not a live reference.
type Booking struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserPhone string `json:"userPhone"`

	Pickup        string        `json:"pickup"`
	Destination   string        `json:"destination"`
	Seats         int           `json:"seats"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	VehicleType   VehicleType   `json:"vehicleType"`
	Notes         string        `json:"notes,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Urgent        bool          `json:"urgent,omitempty"`

	Status        BookingStatus `json:"status"`
	ServiceStatus ServiceStatus `json:"serviceStatus"`
	RideStatus    RideStatus    `json:"rideStatus"`
	DriverName    string        `json:"driverName,omitempty"`
	DriverPhone   string        `json:"driverPhone,omitempty"`
	ServiceType   ServiceType   `json:"serviceType,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// ScheduledAt combines Date and Time into an instant in loc.
func (b *Booking) ScheduledAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, b.Date+" "+b.Time, loc)
}

// HasDriver reports whether a driver has been assigned.
func (b *Booking) HasDriver() bool {
	return b.DriverName != "" && b.DriverPhone != ""
}

// BookingPatch names the status fields an update may touch. Nil fields are
// left as they are, so applying the same patch twice is the same as once.
//
// Check, when set, sees the stored booking right before the patch lands and
// can veto it. Repositories run it under the same lock as the write.
type BookingPatch struct {
	Status        *BookingStatus
	ServiceStatus *ServiceStatus
	RideStatus    *RideStatus
	DriverName    *string
	DriverPhone   *string
	Check         func(current *Booking) error
}

// Apply merges the non-nil fields of p into b.
func (p BookingPatch) Apply(b *Booking) {
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.ServiceStatus != nil {
		b.ServiceStatus = *p.ServiceStatus
	}
	if p.RideStatus != nil {
		b.RideStatus = *p.RideStatus
	}
	if p.DriverName != nil {
		b.DriverName = *p.DriverName
	}
	if p.DriverPhone != nil {
		b.DriverPhone = *p.DriverPhone
	}
}

// rideTransitions is only consulted when strict ride transitions are enabled.
// By default any ride status may move to any other.
var rideTransitions = map[RideStatus][]RideStatus{
	RideStatusPending:        {RideStatusDriverAssigned, RideStatusOnTheWay, RideStatusCompleted},
	RideStatusDriverAssigned: {RideStatusPending, RideStatusOnTheWay, RideStatusCompleted},
	RideStatusOnTheWay:       {RideStatusDriverAssigned, RideStatusCompleted},
	RideStatusCompleted:      {},
}

// CanMoveRideStatus reports whether the strict table allows from -> to.
// Staying on the same status is always allowed.
func CanMoveRideStatus(from, to RideStatus) bool {
	if from == to {
		return true
	}
	if from == "" {
		from = RideStatusPending
	}
	for _, s := range rideTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
