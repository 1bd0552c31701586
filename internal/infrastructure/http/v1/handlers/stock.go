package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/stock"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/http/v1/dto"
)

// StockHandler handles stock ledger requests.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// Get handles GET /stock?productId=&locationId=.
func (h *StockHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, c.Query("productId"), "productId")
	if !ok {
		return
	}
	locationID, ok := h.ParseID(c, c.Query("locationId"), "locationId")
	if !ok {
		return
	}

	entry, err := h.service.GetStock(c.Request.Context(), productID, locationID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromStockEntry(entry))
}

// ListByLocation handles GET /locations/:id/stock.
func (h *StockHandler) ListByLocation(c *gin.Context) {
	locationID, ok := h.ParseID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	entries, err := h.service.ListByLocation(c.Request.Context(), locationID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromStockEntries(entries))
}

// Adjust handles POST /stock/adjustments.
func (h *StockHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, ok := h.ParseID(c, req.ProductID, "productId")
	if !ok {
		return
	}
	locationID, ok := h.ParseID(c, req.LocationID, "locationId")
	if !ok {
		return
	}

	adj, err := h.service.Adjust(c.Request.Context(), stock.AdjustInput{
		ProductID:  productID,
		LocationID: locationID,
		NewCartons: *req.NewCartons,
		Reason:     req.Reason,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromAdjustment(adj))
}

// AdjustmentHistory handles GET /stock/adjustments?productId=&locationId=.
func (h *StockHandler) AdjustmentHistory(c *gin.Context) {
	productID, ok := h.ParseID(c, c.Query("productId"), "productId")
	if !ok {
		return
	}
	locationID, ok := h.ParseID(c, c.Query("locationId"), "locationId")
	if !ok {
		return
	}

	items, err := h.service.AdjustmentHistory(c.Request.Context(), productID, locationID,
		h.ParseIntQuery(c, "limit", 50))
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAdjustments(items))
}
