package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/reports"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/http/v1/dto"
)

// ReportHandler handles read-only report requests.
type ReportHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportHandler creates a report handler.
func NewReportHandler(base *BaseHandler, service *reports.Service) *ReportHandler {
	return &ReportHandler{BaseHandler: base, service: service}
}

// Receipt handles GET /reports/receipts/:saleId.
func (h *ReportHandler) Receipt(c *gin.Context) {
	saleID, ok := h.ParseID(c, c.Param("saleId"), "saleId")
	if !ok {
		return
	}

	receipt, err := h.service.Receipt(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// Sales handles GET /reports/sales?from=&to=&locationId=.
func (h *ReportHandler) Sales(c *gin.Context) {
	from, ok := h.ParseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.ParseDateQuery(c, "to")
	if !ok {
		return
	}

	filter := reports.SalesFilter{
		From:   from,
		To:     to,
		Limit:  h.ParseIntQuery(c, "limit", 500),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("locationId"); raw != "" {
		locationID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id format").WithDetail("field", "locationId"))
			return
		}
		filter.LocationID = &locationID
	}

	items, err := h.service.SalesByDateRange(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromSales(items))
}

// Snapshots handles GET /reports/snapshots?locationId=&from=&to=.
func (h *ReportHandler) Snapshots(c *gin.Context) {
	locationID, ok := h.ParseID(c, c.Query("locationId"), "locationId")
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

	items, err := h.service.SnapshotsByDateRange(c.Request.Context(), reports.SnapshotsFilter{
		LocationID: locationID,
		From:       from,
		To:         to,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromSnapshots(items))
}
