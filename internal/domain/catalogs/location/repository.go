package location

import (
	"context"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
)

// Repository defines persistence operations for locations.
type Repository interface {
	Create(ctx context.Context, l *Location) error
	GetByID(ctx context.Context, locationID id.ID) (*Location, error)
	Update(ctx context.Context, l *Location) error
	List(ctx context.Context) ([]*Location, error)
	Exists(ctx context.Context, locationID id.ID) (bool, error)
}
