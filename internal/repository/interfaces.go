// Package repository declares the persistence contracts the services depend
// on. Implementations live in subpackages; services never import them.
//
// Go Learning Note — Tolerant Mutations:
// Update, Delete and Toggle report (found bool, err error) instead of a
// not-found error. A missing id is an expected outcome for these calls, so
// callers branch on a bool, while err is reserved for storage failures.
package repository

import (
	"context"

	"hamsafar/internal/domain/entities"
)

type BookingRepository interface {
	// Create assigns an id when b.ID is empty and returns it. A preset id
	// that already exists is rejected with a domain.ConflictError.
	Create(ctx context.Context, b *entities.Booking) (string, error)
	List(ctx context.Context) ([]*entities.Booking, error)
	ListForUser(ctx context.Context, userID string) ([]*entities.Booking, error)
	Get(ctx context.Context, id string) (*entities.Booking, bool, error)
	Update(ctx context.Context, id string, patch entities.BookingPatch) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type RouteRepository interface {
	Create(ctx context.Context, r *entities.Route) (string, error)
	List(ctx context.Context) ([]*entities.Route, error)
	// Toggle flips IsActive and returns the route as stored afterwards.
	Toggle(ctx context.Context, id string) (*entities.Route, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type LocationRepository interface {
	Create(ctx context.Context, l *entities.Location) (string, error)
	List(ctx context.Context) ([]*entities.Location, error)
	Delete(ctx context.Context, id string) (bool, error)
}
