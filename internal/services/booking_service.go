package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"hamsafar/internal/config"
	"hamsafar/internal/domain"
	"hamsafar/internal/domain/entities"
	"hamsafar/internal/repository"
	"hamsafar/pkg/utils"
)

// Draft is an unsaved booking as the customer filled it in. Urgent is set
// when Date and Time were taken from one of the offered urgent slots.
type Draft struct {
	Pickup        string                 `json:"pickup"`
	Destination   string                 `json:"destination"`
	Seats         int                    `json:"seats"`
	Date          string                 `json:"date"`
	Time          string                 `json:"time"`
	VehicleType   entities.VehicleType   `json:"vehicleType"`
	PaymentMethod entities.PaymentMethod `json:"paymentMethod"`
	Notes         string                 `json:"notes"`
	Urgent        bool                   `json:"urgent"`
}

type SubmissionOutcome string

const (
	OutcomeCommitted       SubmissionOutcome = "committed"
	OutcomeNeedsUrgentSlot SubmissionOutcome = "urgent_slot_required"
)

// SubmissionResult is the non-error answer to Submit. NeedsUrgentSlot is a
// request for the customer to pick one of Slots and resubmit, not a failure.
type SubmissionResult struct {
	Outcome      SubmissionOutcome     `json:"outcome"`
	Booking      *entities.Booking     `json:"booking,omitempty"`
	Notification *DriverNotification   `json:"notification,omitempty"`
	Slots        []entities.UrgentSlot `json:"slots,omitempty"`
}

type Availability struct {
	Available bool      `json:"available"`
	Hour      int       `json:"hour"`
	OpenHour  int       `json:"openHour"`
	CloseHour int       `json:"closeHour"`
	CheckedAt time.Time `json:"checkedAt"`
}

// RouteMatcher finds the registered route a trip travels along, if any.
type RouteMatcher interface {
	MatchRoute(ctx context.Context, pickup, destination string) (*entities.Route, error)
}

// BookingService runs a draft through validation, the availability window and
// the lead-time rule, then commits it and notifies the drivers.
type BookingService struct {
	bookings repository.BookingRepository
	routes   RouteMatcher
	notifier *NotificationService
	cfg      config.BookingConfig
	hours    utils.ServiceHours
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

func NewBookingService(
	bookings repository.BookingRepository,
	routes RouteMatcher,
	notifier *NotificationService,
	cfg config.BookingConfig,
	loc *time.Location,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		routes:   routes,
		notifier: notifier,
		cfg:      cfg,
		hours:    utils.ServiceHours{Open: cfg.OpenHour, Close: cfg.CloseHour},
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// SetClock replaces the wall clock.
func (s *BookingService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *BookingService) localNow() time.Time {
	return s.now().In(s.loc)
}

// Submit processes a draft for user.
//
// Validation and availability failures are returned as errors and persist
// nothing. A draft inside the lead time comes back as OutcomeNeedsUrgentSlot,
// also without persisting. Once the booking is committed nothing that happens
// to the driver notification can undo it.
func (s *BookingService) Submit(ctx context.Context, user *entities.User, draft Draft) (*SubmissionResult, error) {
	selected, err := s.validate(&draft)
	if err != nil {
		return nil, err
	}

	now := s.localNow()
	if !s.hours.IsAvailable(now) {
		return nil, domain.ServiceUnavailableError{Hour: now.Hour()}
	}

	urgent := false
	if !utils.MeetsLeadTime(now, selected, s.cfg.LeadTime) {
		if !draft.Urgent || !s.isOfferedSlot(now, selected) {
			return &SubmissionResult{
				Outcome: OutcomeNeedsUrgentSlot,
				Slots:   s.slotsFrom(now),
			}, nil
		}
		urgent = true
	}

	booking := &entities.Booking{
		UserID:        user.ID,
		UserName:      user.Name,
		UserPhone:     user.Phone,
		Pickup:        draft.Pickup,
		Destination:   draft.Destination,
		Seats:         draft.Seats,
		Date:          draft.Date,
		Time:          draft.Time,
		VehicleType:   draft.VehicleType,
		Notes:         draft.Notes,
		PaymentMethod: draft.PaymentMethod,
		Urgent:        urgent,
		Status:        entities.BookingStatusPending,
		ServiceStatus: entities.ServiceStatusPending,
		RideStatus:    entities.RideStatusPending,
		CreatedAt:     s.now().UTC(),
	}

	route, err := s.routes.MatchRoute(ctx, draft.Pickup, draft.Destination)
	if err != nil {
		s.logger.Warn("route lookup failed, booking without service type", zap.Error(err))
	} else if route != nil {
		booking.ServiceType = route.ServiceType
	}

	if _, err := s.bookings.Create(ctx, booking); err != nil {
		s.logger.Error("failed to persist booking",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("booking committed",
		zap.String("booking_id", booking.ID),
		zap.String("user_id", user.ID),
		zap.String("pickup", booking.Pickup),
		zap.String("destination", booking.Destination),
		zap.Bool("urgent", urgent),
	)

	notification := s.notifier.Prepare(ctx, booking, user)
	s.notifier.Dispatch(booking.ID, notification)

	return &SubmissionResult{
		Outcome:      OutcomeCommitted,
		Booking:      booking,
		Notification: &notification,
	}, nil
}

// validate normalizes draft in place and returns the requested instant.
func (s *BookingService) validate(draft *Draft) (time.Time, error) {
	draft.Pickup = strings.TrimSpace(draft.Pickup)
	draft.Destination = strings.TrimSpace(draft.Destination)
	draft.Notes = strings.TrimSpace(draft.Notes)
	draft.Date = strings.TrimSpace(draft.Date)
	draft.Time = strings.TrimSpace(draft.Time)

	var missing []string
	if draft.Pickup == "" {
		missing = append(missing, "pickup")
	}
	if draft.Destination == "" {
		missing = append(missing, "destination")
	}
	if len(missing) > 0 {
		return time.Time{}, domain.MissingFieldsError{Fields: missing}
	}

	if draft.Seats == 0 {
		draft.Seats = 1
	}
	if !entities.ValidSeats(draft.Seats) {
		return time.Time{}, domain.ValidationError{Field: "seats", Msg: "not an offered seat count"}
	}
	if draft.VehicleType == "" {
		draft.VehicleType = entities.VehicleCar
	}
	if !draft.VehicleType.Valid() {
		return time.Time{}, domain.ValidationError{Field: "vehicleType", Msg: "unknown vehicle type"}
	}
	if draft.PaymentMethod == "" {
		draft.PaymentMethod = entities.PaymentPhysical
	}
	if !draft.PaymentMethod.Valid() {
		return time.Time{}, domain.ValidationError{Field: "paymentMethod", Msg: "must be online or physical"}
	}

	selected, err := time.ParseInLocation(entities.DateLayout+" "+entities.TimeLayout, draft.Date+" "+draft.Time, s.loc)
	if err != nil {
		return time.Time{}, domain.ValidationError{Field: "date", Msg: "date must be YYYY-MM-DD and time HH:MM", Err: err}
	}
	return selected, nil
}

// UrgentSlots lists the short-notice times offered right now.
func (s *BookingService) UrgentSlots() []entities.UrgentSlot {
	return s.slotsFrom(s.localNow())
}

func (s *BookingService) slotsFrom(now time.Time) []entities.UrgentSlot {
	times := utils.SlotTimes(now, s.cfg.UrgentSlotOffset, s.cfg.UrgentSlotStep, s.cfg.UrgentSlotCount)
	slots := make([]entities.UrgentSlot, 0, len(times))
	for _, at := range times {
		slots = append(slots, entities.NewUrgentSlot(at))
	}
	return slots
}

// isOfferedSlot reports whether selected is one of the slots offered at now,
// or was one when the list was shown up to UrgentSlotTolerance ago. Slots are
// relative to the clock, so the grid drifts forward while the customer picks.
func (s *BookingService) isOfferedSlot(now, selected time.Time) bool {
	for _, at := range s.slotsFrom(now) {
		if !selected.After(at) && !selected.Before(at.Add(-s.cfg.UrgentSlotTolerance)) {
			return true
		}
	}
	return false
}

// Availability reports the current state of the service window.
func (s *BookingService) Availability() Availability {
	now := s.localNow()
	return Availability{
		Available: s.hours.IsAvailable(now),
		Hour:      now.Hour(),
		OpenHour:  s.cfg.OpenHour,
		CloseHour: s.cfg.CloseHour,
		CheckedAt: now,
	}
}

// NewDraft returns the values the booking form starts with: one seat by car,
// paid in cash, at 09:00 on the first date outside the lead time.
func (s *BookingService) NewDraft() Draft {
	earliest := s.localNow().Add(s.cfg.LeadTime)
	date := time.Date(earliest.Year(), earliest.Month(), earliest.Day(), 9, 0, 0, 0, s.loc)
	if date.Before(earliest) {
		date = date.AddDate(0, 0, 1)
	}
	return Draft{
		Seats:         1,
		Date:          date.Format(entities.DateLayout),
		Time:          "09:00",
		VehicleType:   entities.VehicleCar,
		PaymentMethod: entities.PaymentPhysical,
	}
}

func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]*entities.Booking, error) {
	return s.bookings.ListForUser(ctx, userID)
}

// GetForViewer returns a booking its owner or an admin may see. Anyone else
// gets the same NotFoundError as for a missing id.
func (s *BookingService) GetForViewer(ctx context.Context, viewer *entities.User, id string) (*entities.Booking, error) {
	b, found, err := s.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found || (!viewer.IsAdmin() && b.UserID != viewer.ID) {
		return nil, domain.NotFoundError{Resource: "booking", ID: id}
	}
	return b, nil
}
