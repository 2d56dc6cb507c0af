package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"hamsafar/internal/domain"
	"hamsafar/internal/domain/entities"
	"hamsafar/internal/repository"
)

// RegistryService manages the admin's route and location lists. Removing or
// toggling an id that does not exist reports found=false and changes nothing.
type RegistryService struct {
	routes    repository.RouteRepository
	locations repository.LocationRepository
	logger    *zap.Logger
}

func NewRegistryService(
	routes repository.RouteRepository,
	locations repository.LocationRepository,
	logger *zap.Logger,
) *RegistryService {
	return &RegistryService{
		routes:    routes,
		locations: locations,
		logger:    logger,
	}
}

// AddRoute registers an active route. An empty service type means local.
func (s *RegistryService) AddRoute(ctx context.Context, from, to, serviceType string) (*entities.Route, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)

	var missing []string
	if from == "" {
		missing = append(missing, "from")
	}
	if to == "" {
		missing = append(missing, "to")
	}
	if len(missing) > 0 {
		return nil, domain.MissingFieldsError{Fields: missing}
	}

	st := entities.ServiceTypeLocal
	if strings.TrimSpace(serviceType) != "" {
		parsed, ok := entities.ParseServiceType(serviceType)
		if !ok {
			return nil, domain.ValidationError{Field: "serviceType", Msg: "must be local or special"}
		}
		st = parsed
	}

	route := entities.NewRoute("", from, to, st)
	if _, err := s.routes.Create(ctx, route); err != nil {
		return nil, err
	}
	s.logger.Info("route added",
		zap.String("route_id", route.ID),
		zap.String("from", from),
		zap.String("to", to),
		zap.String("service_type", string(st)),
	)
	return route, nil
}

func (s *RegistryService) ToggleRoute(ctx context.Context, id string) (*entities.Route, bool, error) {
	return s.routes.Toggle(ctx, id)
}

func (s *RegistryService) RemoveRoute(ctx context.Context, id string) (bool, error) {
	return s.routes.Delete(ctx, id)
}

func (s *RegistryService) ListRoutes(ctx context.Context) ([]*entities.Route, error) {
	return s.routes.List(ctx)
}

// MatchRoute returns the first active route between the two places, or nil.
func (s *RegistryService) MatchRoute(ctx context.Context, pickup, destination string) (*entities.Route, error) {
	routes, err := s.routes.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range routes {
		if r.IsActive && r.Matches(pickup, destination) {
			return r, nil
		}
	}
	return nil, nil
}

func (s *RegistryService) AddLocation(ctx context.Context, name string) (*entities.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.MissingFieldsError{Fields: []string{"name"}}
	}
	location := entities.NewLocation("", name)
	if _, err := s.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	s.logger.Info("location added", zap.String("location_id", location.ID), zap.String("name", name))
	return location, nil
}

func (s *RegistryService) RemoveLocation(ctx context.Context, id string) (bool, error) {
	return s.locations.Delete(ctx, id)
}

func (s *RegistryService) ListLocations(ctx context.Context) ([]*entities.Location, error) {
	return s.locations.List(ctx)
}
