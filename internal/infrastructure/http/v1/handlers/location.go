package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/catalogs/location"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/http/v1/dto"
)

// LocationHandler handles location catalog requests.
type LocationHandler struct {
	*BaseHandler
	service *location.Service
}

// NewLocationHandler creates a location handler.
func NewLocationHandler(base *BaseHandler, service *location.Service) *LocationHandler {
	return &LocationHandler{BaseHandler: base, service: service}
}

// Create handles POST /locations.
func (h *LocationHandler) Create(c *gin.Context) {
	var req dto.CreateLocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	l, err := h.service.Create(c.Request.Context(), req.Name, location.Type(req.Type))
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromLocation(l))
}

// Get handles GET /locations/:id.
func (h *LocationHandler) Get(c *gin.Context) {
	locationID, ok := h.ParseID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), locationID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromLocation(l))
}

// Rename handles PATCH /locations/:id.
func (h *LocationHandler) Rename(c *gin.Context) {
	locationID, ok := h.ParseID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	var req dto.RenameLocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	l, err := h.service.Rename(c.Request.Context(), locationID, req.Name)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromLocation(l))
}

// List handles GET /locations.
func (h *LocationHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromLocations(items))
}
