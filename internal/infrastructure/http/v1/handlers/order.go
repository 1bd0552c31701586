package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/orders"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/sales"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/http/v1/dto"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/metrics"
)

// OrderHandler handles order lifecycle requests.
type OrderHandler struct {
	*BaseHandler
	service *orders.Service
	metrics *metrics.Metrics
}

// NewOrderHandler creates an order handler. m may be nil.
func NewOrderHandler(base *BaseHandler, service *orders.Service, m *metrics.Metrics) *OrderHandler {
	return &OrderHandler{BaseHandler: base, service: service, metrics: m}
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	items := make([]sales.InputItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, ok := h.ParseID(c, item.ProductID, "productId")
		if !ok {
			return
		}
		items = append(items, sales.InputItem{
			ProductID: productID,
			Cartons:   item.Cartons,
		})
	}

	order, err := h.service.Create(c.Request.Context(), items)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromOrder(order))
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := h.ParseID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromOrder(order))
}

// List handles GET /orders?status=.
func (h *OrderHandler) List(c *gin.Context) {
	filter := orders.ListFilter{
		Status: orders.Status(c.Query("status")),
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromOrders(items))
}

// Approve handles POST /orders/:id/approve.
func (h *OrderHandler) Approve(c *gin.Context) {
	orderID, ok := h.ParseID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	order, err := h.service.Approve(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromOrder(order))
}

// Reject handles POST /orders/:id/reject.
func (h *OrderHandler) Reject(c *gin.Context) {
	orderID, ok := h.ParseID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	order, err := h.service.Reject(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromOrder(order))
}

// Fulfill handles POST /orders/:id/fulfill.
func (h *OrderHandler) Fulfill(c *gin.Context) {
	orderID, ok := h.ParseID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	order, err := h.service.Fulfill(c.Request.Context(), orderID)
	if err != nil {
		if h.metrics != nil && apperror.IsInsufficientStock(err) {
			h.metrics.InsufficientStock.Inc()
		}
		h.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.OrdersFulfilled.Inc()
	}
	c.JSON(http.StatusOK, dto.FromOrder(order))
}
