// Package location provides the physical-location catalog.
// The business operates one store (the fulfillment warehouse) and a
// number of shops.
package location

import (
	"context"
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
)

// Type classifies a location.
type Type string

const (
	// TypeStore is the central warehouse. Customer orders are always
	// fulfilled against the store's stock.
	TypeStore Type = "store"

	// TypeShop is a retail point staffed by shop users.
	TypeShop Type = "shop"
)

// Valid reports whether the type is a known location type.
func (t Type) Valid() bool {
	return t == TypeStore || t == TypeShop
}

// Location represents a physical stock-holding site.
type Location struct {
	ID   id.ID  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Type Type   `db:"type" json:"type"`

	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a new Location with generated ID.
func New(name string, locType Type) *Location {
	now := time.Now().UTC()
	return &Location{
		ID:        id.New(),
		Name:      name,
		Type:      locType,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp and increments version.
func (l *Location) Touch() {
	l.UpdatedAt = time.Now().UTC()
	l.Version++
}

// Validate checks entity invariants.
func (l *Location) Validate(ctx context.Context) error {
	if l.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if !l.Type.Valid() {
		return apperror.NewValidation("type must be 'store' or 'shop'").
			WithDetail("field", "type")
	}

	return nil
}
