package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"hamsafar/internal/domain"
	"hamsafar/internal/domain/entities"
	"hamsafar/internal/repository"
)

// AdminService is the status-management surface over all bookings. Every
// mutation reports found=false for an unknown id instead of failing.
//
// Status fields may move freely between their values. When strict ride
// transitions are enabled, a completed ride can no longer change.
type AdminService struct {
	bookings repository.BookingRepository
	strict   bool
	logger   *zap.Logger
}

func NewAdminService(bookings repository.BookingRepository, strictRideTransitions bool, logger *zap.Logger) *AdminService {
	return &AdminService{
		bookings: bookings,
		strict:   strictRideTransitions,
		logger:   logger,
	}
}

func (s *AdminService) List(ctx context.Context) ([]*entities.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *AdminService) Get(ctx context.Context, id string) (*entities.Booking, bool, error) {
	return s.bookings.Get(ctx, id)
}

func (s *AdminService) SetStatus(ctx context.Context, id string, status entities.BookingStatus) (bool, error) {
	if !status.Valid() {
		return false, domain.ValidationError{Field: "status", Msg: "must be pending, confirmed or cancelled"}
	}
	return s.update(ctx, id, entities.BookingPatch{Status: &status})
}

func (s *AdminService) SetServiceStatus(ctx context.Context, id string, status entities.ServiceStatus) (bool, error) {
	if !status.Valid() {
		return false, domain.ValidationError{Field: "serviceStatus", Msg: "must be pending, available or not-available"}
	}
	return s.update(ctx, id, entities.BookingPatch{ServiceStatus: &status})
}

func (s *AdminService) SetRideStatus(ctx context.Context, id string, status entities.RideStatus) (bool, error) {
	if !status.Valid() {
		return false, domain.ValidationError{Field: "rideStatus", Msg: "unknown ride status"}
	}
	return s.update(ctx, id, entities.BookingPatch{
		RideStatus: &status,
		Check:      s.rideTransitionCheck(status),
	})
}

// AssignDriver sets both driver fields and moves the ride to driver-assigned
// in one write.
func (s *AdminService) AssignDriver(ctx context.Context, id, name, phone string) (bool, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)

	var missing []string
	if name == "" {
		missing = append(missing, "driverName")
	}
	if phone == "" {
		missing = append(missing, "driverPhone")
	}
	if len(missing) > 0 {
		return false, domain.MissingFieldsError{Fields: missing}
	}

	assigned := entities.RideStatusDriverAssigned
	return s.update(ctx, id, entities.BookingPatch{
		RideStatus:  &assigned,
		DriverName:  &name,
		DriverPhone: &phone,
		Check:       s.rideTransitionCheck(assigned),
	})
}

// Remove deletes a booking once the operator has confirmed it.
func (s *AdminService) Remove(ctx context.Context, id string, confirmed bool) (bool, error) {
	if !confirmed {
		return false, domain.ErrConfirmationRequired
	}
	found, err := s.bookings.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if found {
		s.logger.Info("booking removed", zap.String("booking_id", id))
	}
	return found, nil
}

// rideTransitionCheck returns nil outside strict mode. In strict mode the
// repository runs the check against the stored record inside the write, so a
// concurrent update cannot slip between the check and the patch.
func (s *AdminService) rideTransitionCheck(to entities.RideStatus) func(*entities.Booking) error {
	if !s.strict {
		return nil
	}
	return func(current *entities.Booking) error {
		if !entities.CanMoveRideStatus(current.RideStatus, to) {
			return domain.ConflictError{
				Resource: "ride status",
				Msg:      "cannot move from " + string(current.RideStatus) + " to " + string(to),
			}
		}
		return nil
	}
}

func (s *AdminService) update(ctx context.Context, id string, patch entities.BookingPatch) (bool, error) {
	found, err := s.bookings.Update(ctx, id, patch)
	if domain.IsConflict(err) {
		s.logger.Warn("update rejected", zap.String("booking_id", id), zap.Error(err))
		return found, err
	}
	if err != nil {
		s.logger.Error("failed to update booking", zap.String("booking_id", id), zap.Error(err))
		return false, err
	}
	if !found {
		s.logger.Debug("update ignored, booking not found", zap.String("booking_id", id))
	}
	return found, nil
}
