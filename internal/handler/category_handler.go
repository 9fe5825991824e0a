package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hweliang/finbook-backend/internal/domain"
)

// CategoryHandler serves the static category reference set.
type CategoryHandler struct {
	gateway domain.Gateway
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(gateway domain.Gateway) *CategoryHandler {
	return &CategoryHandler{gateway: gateway}
}

// GetCategories handles GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.gateway.ListCategories())
}
