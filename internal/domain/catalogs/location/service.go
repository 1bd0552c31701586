package location

import (
	"context"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/authz"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/pkg/logger"
)

// Service provides business operations for the location catalog.
type Service struct {
	repo Repository
}

// NewService creates a location service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new location.
func (s *Service) Create(ctx context.Context, name string, locType Type) (*Location, error) {
	if err := authz.Authorize(ctx, authz.OpLocationWrite); err != nil {
		return nil, err
	}

	l := New(name, locType)
	if err := l.Validate(ctx); err != nil {
		return nil, err
	}

	// A single store backs order fulfillment; a second store row would
	// silently repoint it.
	if locType == TypeStore {
		existing, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, other := range existing {
			if other.Type == TypeStore {
				return nil, apperror.NewDuplicate("location", "type", string(TypeStore))
			}
		}
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	logger.Info(ctx, "location created",
		"location_id", l.ID,
		"name", l.Name,
		"type", l.Type,
	)
	return l, nil
}

// GetByID returns a location by its identifier.
func (s *Service) GetByID(ctx context.Context, locationID id.ID) (*Location, error) {
	return s.repo.GetByID(ctx, locationID)
}

// Rename changes a location's display name.
func (s *Service) Rename(ctx context.Context, locationID id.ID, name string) (*Location, error) {
	if err := authz.Authorize(ctx, authz.OpLocationWrite); err != nil {
		return nil, err
	}

	l, err := s.repo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}

	l.Name = name
	if err := l.Validate(ctx); err != nil {
		return nil, err
	}

	l.Touch()
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	logger.Info(ctx, "location renamed", "location_id", l.ID, "name", l.Name)
	return l, nil
}

// List returns all locations.
func (s *Service) List(ctx context.Context) ([]*Location, error) {
	return s.repo.List(ctx)
}
