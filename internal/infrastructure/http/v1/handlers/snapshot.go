package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/snapshot"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/http/v1/dto"
)

// SnapshotHandler handles daily snapshot requests.
type SnapshotHandler struct {
	*BaseHandler
	service *snapshot.Service
}

// NewSnapshotHandler creates a snapshot handler.
func NewSnapshotHandler(base *BaseHandler, service *snapshot.Service) *SnapshotHandler {
	return &SnapshotHandler{BaseHandler: base, service: service}
}

// Get handles GET /snapshots?productId=&locationId=&day=.
func (h *SnapshotHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, c.Query("productId"), "productId")
	if !ok {
		return
	}
	locationID, ok := h.ParseID(c, c.Query("locationId"), "locationId")
	if !ok {
		return
	}
	day, ok := h.ParseDateQuery(c, "day")
	if !ok {
		return
	}

	snap, err := h.service.GetRow(c.Request.Context(), productID, locationID, day)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromSnapshot(snap))
}

// Range handles GET /locations/:id/snapshots?from=&to=.
func (h *SnapshotHandler) Range(c *gin.Context) {
	locationID, ok := h.ParseID(c, c.Param("id"), "id")
	if !ok {
		return
	}
	from, ok := h.ParseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.ParseDateQuery(c, "to")
	if !ok {
		return
	}

	items, err := h.service.Range(c.Request.Context(), locationID, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromSnapshots(items))
}

// BulkOverride handles PUT /locations/:id/snapshots.
func (h *SnapshotHandler) BulkOverride(c *gin.Context) {
	locationID, ok := h.ParseID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	var req dto.BulkOverrideRequest
	if !h.BindJSON(c, &req) {
		return
	}

	day, err := time.Parse(time.DateOnly, req.Day)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid day format, expected YYYY-MM-DD").
			WithDetail("day", req.Day))
		return
	}

	items := make([]snapshot.OverrideItem, 0, len(req.Rows))
	for _, row := range req.Rows {
		productID, ok := h.ParseID(c, row.ProductID, "productId")
		if !ok {
			return
		}
		items = append(items, snapshot.OverrideItem{
			ProductID: productID,
			Row: snapshot.Row{
				Opening: row.Opening,
				Added:   row.Added,
				Sold:    row.Sold,
				Closing: row.Closing,
			},
		})
	}

	if err := h.service.BulkOverride(c.Request.Context(), locationID, day, items); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "overridden"})
}
