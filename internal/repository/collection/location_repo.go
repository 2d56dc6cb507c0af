package collection

import (
	"context"

	"hamsafar/internal/domain/entities"
	"hamsafar/internal/storage"
	"hamsafar/pkg/utils"
)

const LocationsKey = "locations"

type LocationRepository struct {
	col *Collection[entities.Location]
}

func NewLocationRepository(store storage.Store) *LocationRepository {
	return &LocationRepository{col: New[entities.Location](store, LocationsKey)}
}

func (r *LocationRepository) Create(ctx context.Context, l *entities.Location) (string, error) {
	record := *l
	if record.ID == "" {
		record.ID = utils.GenerateID()
	}
	err := r.col.Mutate(ctx, func(items []entities.Location) ([]entities.Location, bool, error) {
		return append(items, record), true, nil
	})
	if err != nil {
		return "", err
	}
	l.ID = record.ID
	return record.ID, nil
}

func (r *LocationRepository) List(ctx context.Context) ([]*entities.Location, error) {
	items, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}
	locations := make([]*entities.Location, 0, len(items))
	for i := range items {
		locations = append(locations, &items[i])
	}
	return locations, nil
}

func (r *LocationRepository) Delete(ctx context.Context, id string) (bool, error) {
	found := false
	err := r.col.Mutate(ctx, func(items []entities.Location) ([]entities.Location, bool, error) {
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
