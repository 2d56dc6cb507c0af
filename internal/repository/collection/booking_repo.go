package collection

import (
	"context"

	"hamsafar/internal/domain"
	"hamsafar/internal/domain/entities"
	"hamsafar/internal/storage"
	"hamsafar/pkg/utils"
)

const BookingsKey = "bookings"

// BookingRepository persists bookings as one JSON array in insertion order.
type BookingRepository struct {
	col *Collection[entities.Booking]
}

func NewBookingRepository(store storage.Store) *BookingRepository {
	return &BookingRepository{col: New[entities.Booking](store, BookingsKey)}
}

// Create appends b. When b.ID is empty an id is generated; it is written
// back to b only once the collection has been saved.
func (r *BookingRepository) Create(ctx context.Context, b *entities.Booking) (string, error) {
	record := *b
	if record.ID == "" {
		record.ID = utils.GenerateID()
	}
	err := r.col.Mutate(ctx, func(items []entities.Booking) ([]entities.Booking, bool, error) {
		for i := range items {
			if items[i].ID == record.ID {
				return nil, false, domain.ConflictError{Resource: "booking", Msg: "id " + record.ID + " already exists"}
			}
		}
		return append(items, record), true, nil
	})
	if err != nil {
		return "", err
	}
	b.ID = record.ID
	return record.ID, nil
}

func (r *BookingRepository) List(ctx context.Context) ([]*entities.Booking, error) {
	items, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}
	bookings := make([]*entities.Booking, 0, len(items))
	for i := range items {
		bookings = append(bookings, &items[i])
	}
	return bookings, nil
}

// ListForUser keeps the relative order of List.
func (r *BookingRepository) ListForUser(ctx context.Context, userID string) ([]*entities.Booking, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	mine := make([]*entities.Booking, 0)
	for _, b := range all {
		if b.UserID == userID {
			mine = append(mine, b)
		}
	}
	return mine, nil
}

func (r *BookingRepository) Get(ctx context.Context, id string) (*entities.Booking, bool, error) {
	items, err := r.col.All(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], true, nil
		}
	}
	return nil, false, nil
}

// Update merges patch into the matching booking in a single write, so every
// field of the patch becomes visible together. patch.Check runs against the
// record read inside the same cycle; its error leaves the booking untouched.
func (r *BookingRepository) Update(ctx context.Context, id string, patch entities.BookingPatch) (bool, error) {
	found := false
	err := r.col.Mutate(ctx, func(items []entities.Booking) ([]entities.Booking, bool, error) {
		for i := range items {
			if items[i].ID == id {
				found = true
				if patch.Check != nil {
					if err := patch.Check(&items[i]); err != nil {
						return nil, false, err
					}
				}
				patch.Apply(&items[i])
				return items, true, nil
			}
		}
		return items, false, nil
	})
	return found, err
}

func (r *BookingRepository) Delete(ctx context.Context, id string) (bool, error) {
	found := false
	err := r.col.Mutate(ctx, func(items []entities.Booking) ([]entities.Booking, bool, error) {
		for i := range items {
			if items[i].ID == id {
				found = true
				return append(items[:i], items[i+1:]...), true, nil
			}
		}
		return items, false, nil
	})
	return found, err
}
