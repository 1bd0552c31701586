package dto

import (
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/catalogs/location"
)

// CreateLocationRequest is the payload for creating a location.
type CreateLocationRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,oneof=store shop"`
}

// RenameLocationRequest changes a location's name.
type RenameLocationRequest struct {
	Name string `json:"name" binding:"required"`
}

// LocationResponse is the wire shape of a location.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromLocation maps a location entity to its response.
func FromLocation(l *location.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID.String(),
		Name:      l.Name,
		Type:      string(l.Type),
		CreatedAt: l.CreatedAt,
	}
}

// FromLocations maps a location list.
func FromLocations(items []*location.Location) []LocationResponse {
	out := make([]LocationResponse, 0, len(items))
	for _, l := range items {
		out = append(out, FromLocation(l))
	}
	return out
}
