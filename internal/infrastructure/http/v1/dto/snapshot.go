package dto

import (
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/snapshot"
)

// SnapshotResponse is the wire shape of a daily snapshot row.
type SnapshotResponse struct {
	ProductID  string `json:"productId"`
	LocationID string `json:"locationId"`
	Day        string `json:"day"`
	Opening    int64  `json:"opening"`
	Added      int64  `json:"added"`
	Sold       int64  `json:"sold"`
	Closing    int64  `json:"closing"`
	Manual     bool   `json:"manual"`
}

// FromSnapshot maps a snapshot to its response.
func FromSnapshot(s *snapshot.DailySnapshot) SnapshotResponse {
	return SnapshotResponse{
		ProductID:  s.ProductID.String(),
		LocationID: s.LocationID.String(),
		Day:        s.Day.Format(time.DateOnly),
		Opening:    s.Opening,
		Added:      s.Added,
		Sold:       s.Sold,
		Closing:    s.Closing,
		Manual:     s.Manual,
	}
}

// FromSnapshots maps a snapshot list.
func FromSnapshots(items []*snapshot.DailySnapshot) []SnapshotResponse {
	out := make([]SnapshotResponse, 0, len(items))
	for _, s := range items {
		out = append(out, FromSnapshot(s))
	}
	return out
}

// OverrideRow is one edited snapshot row. Closing is taken verbatim.
type OverrideRow struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Opening   int64  `json:"opening" binding:"min=0"`
	Added     int64  `json:"added" binding:"min=0"`
	Sold      int64  `json:"sold" binding:"min=0"`
	Closing   int64  `json:"closing" binding:"min=0"`
}

// BulkOverrideRequest is the payload of the snapshot adjust flow.
type BulkOverrideRequest struct {
	Day  string        `json:"day" binding:"required"`
	Rows []OverrideRow `json:"rows" binding:"required,min=1,dive"`
}
