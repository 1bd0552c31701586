// Package snapshot provides the daily stock snapshot engine: one row
// per (product, location, day) recording opening, added, sold and
// closing carton counts.
package snapshot

import (
	"context"
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
)

// Day truncates a timestamp to its UTC calendar date. All snapshot
// rows are keyed on days produced by this function.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current UTC calendar date.
func Today() time.Time {
	return Day(time.Now())
}

// Row holds the four counters of a snapshot without its identity.
type Row struct {
	Opening int64 `json:"opening"`
	Added   int64 `json:"added"`
	Sold    int64 `json:"sold"`
	Closing int64 `json:"closing"`
}

// Derived recomputes the closing count from the other three,
// clamped at zero.
func (r Row) Derived() int64 {
	closing := r.Opening + r.Added - r.Sold
	if closing < 0 {
		return 0
	}
	return closing
}

// DailySnapshot is a persisted per-day stock record. Once the day is
// over the row is immutable except through a manual override.
type DailySnapshot struct {
	ProductID  id.ID     `db:"product_id" json:"productId"`
	LocationID id.ID     `db:"location_id" json:"locationId"`
	Day        time.Time `db:"day" json:"day"`

	Opening int64 `db:"opening" json:"opening"`
	Added   int64 `db:"added" json:"added"`
	Sold    int64 `db:"sold" json:"sold"`
	Closing int64 `db:"closing" json:"closing"`

	// Manual marks rows written by a supervisor override rather than
	// derived from transactions.
	Manual bool `db:"manual" json:"manual"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Counters returns the snapshot's counters as a Row.
func (s *DailySnapshot) Counters() Row {
	return Row{Opening: s.Opening, Added: s.Added, Sold: s.Sold, Closing: s.Closing}
}

// Validate checks snapshot invariants.
func (s *DailySnapshot) Validate(ctx context.Context) error {
	if id.IsNil(s.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if id.IsNil(s.LocationID) {
		return apperror.NewValidation("location is required").
			WithDetail("field", "locationId")
	}
	if s.Day.IsZero() {
		return apperror.NewValidation("day is required").
			WithDetail("field", "day")
	}
	for _, c := range []struct {
		name  string
		value int64
	}{
		{"opening", s.Opening},
		{"added", s.Added},
		{"sold", s.Sold},
		{"closing", s.Closing},
	} {
		if c.value < 0 {
			return apperror.NewInvalidQuantity("snapshot counters cannot be negative").
				WithDetail("field", c.name).
				WithDetail("value", c.value)
		}
	}
	return nil
}
