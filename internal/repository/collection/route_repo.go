package collection

import (
	"context"

	"hamsafar/internal/domain/entities"
	"hamsafar/internal/storage"
	"hamsafar/pkg/utils"
)

const RoutesKey = "routes"

type RouteRepository struct {
	col *Collection[entities.Route]
}

func NewRouteRepository(store storage.Store) *RouteRepository {
	return &RouteRepository{col: New[entities.Route](store, RoutesKey)}
}

func (r *RouteRepository) Create(ctx context.Context, route *entities.Route) (string, error) {
	record := *route
	if record.ID == "" {
		record.ID = utils.GenerateID()
	}
	err := r.col.Mutate(ctx, func(items []entities.Route) ([]entities.Route, bool, error) {
		return append(items, record), true, nil
	})
	if err != nil {
		return "", err
	}
	route.ID = record.ID
	return record.ID, nil
}

func (r *RouteRepository) List(ctx context.Context) ([]*entities.Route, error) {
	items, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}
	routes := make([]*entities.Route, 0, len(items))
	for i := range items {
		routes = append(routes, &items[i])
	}
	return routes, nil
}

func (r *RouteRepository) Toggle(ctx context.Context, id string) (*entities.Route, bool, error) {
	var toggled *entities.Route
	err := r.col.Mutate(ctx, func(items []entities.Route) ([]entities.Route, bool, error) {
		for i := range items {
			if items[i].ID == id {
				items[i].IsActive = !items[i].IsActive
				route := items[i]
				toggled = &route
				return items, true, nil
			}
		}
		return items, false, nil
	})
	if err != nil {
		return nil, false, err
	}
	return toggled, toggled != nil, nil
}

func (r *RouteRepository) Delete(ctx context.Context, id string) (bool, error) {
	found := false
	err := r.col.Mutate(ctx, func(items []entities.Route) ([]entities.Route, bool, error) {
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
