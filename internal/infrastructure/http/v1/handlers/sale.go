package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/sales"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/http/v1/dto"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/metrics"
)

// SaleHandler handles sale requests.
type SaleHandler struct {
	*BaseHandler
	service *sales.Service
	metrics *metrics.Metrics
}

// NewSaleHandler creates a sale handler. m may be nil.
func NewSaleHandler(base *BaseHandler, service *sales.Service, m *metrics.Metrics) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service, metrics: m}
}

// Record handles POST /sales.
func (h *SaleHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	locationID, ok := h.ParseID(c, req.LocationID, "locationId")
	if !ok {
		return
	}

	input := sales.RecordSaleInput{
		LocationID:   locationID,
		CustomerName: req.CustomerName,
		Items:        make([]sales.InputItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		productID, ok := h.ParseID(c, item.ProductID, "productId")
		if !ok {
			return
		}
		input.Items = append(input.Items, sales.InputItem{
			ProductID: productID,
			Cartons:   item.Cartons,
		})
	}

	sale, err := h.service.RecordSale(c.Request.Context(), input)
	if err != nil {
		if h.metrics != nil && apperror.IsInsufficientStock(err) {
			h.metrics.InsufficientStock.Inc()
		}
		h.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.SalesRecorded.Inc()
	}
	c.JSON(http.StatusCreated, dto.FromSale(sale))
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := h.ParseID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	sale, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromSale(sale))
}

// List handles GET /sales?locationId=&from=&to=.
func (h *SaleHandler) List(c *gin.Context) {
	filter := sales.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
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
	if raw := c.Query("from"); raw != "" {
		from, ok := h.ParseDateQuery(c, "from")
		if !ok {
			return
		}
		filter.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, ok := h.ParseDateQuery(c, "to")
		if !ok {
			return
		}
		filter.To = to
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromSales(items))
}
