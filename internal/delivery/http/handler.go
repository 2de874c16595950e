package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adega/backend/internal/domain"
	logpkg "github.com/adega/backend/internal/logger"
	"github.com/adega/backend/internal/usecase"
)

const (
	serviceName    = "adega-backend"
	serviceVersion = "1.0.0"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search   *usecase.SearchService
	carts    *usecase.CartService
	catalog  *domain.Catalog
	maxLimit int
}

// NewHandler creates a new HTTP handler
func NewHandler(
	search *usecase.SearchService,
	carts *usecase.CartService,
	catalog *domain.Catalog,
	maxLimit int,
) *Handler {
	return &Handler{
		search:   search,
		carts:    carts,
		catalog:  catalog,
		maxLimit: maxLimit,
	}
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// cartItemRequest is one line of a cart upsert. Qty is a pointer so that a
// missing qty fails binding instead of silently meaning "remove".
type cartItemRequest struct {
	ItemPlatformID string `json:"item_platform_id" binding:"required"`
	Qty            *int   `json:"qty" binding:"required,min=0"`
}

// upsertCartRequest is the body of POST /api/v1/carts/items
type upsertCartRequest struct {
	CartID string            `json:"cart_id"`
	Items  []cartItemRequest `json:"items" binding:"required,min=1,dive"`
}

// replaceCartItemsRequest is the body of PUT /api/v1/carts/:cartId/items
type replaceCartItemsRequest struct {
	Items []cartItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SubtotalResponse is the body of GET /api/v1/carts/:cartId/subtotal
type SubtotalResponse struct {
	CartID   string  `json:"cart_id"`
	Subtotal float64 `json:"subtotal"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"service":       serviceName,
		"version":       serviceVersion,
		"catalog_items": h.catalog.Len(),
	})
}

// SearchCatalog handles GET /api/v1/catalog/search?q=&limit=
func (h *Handler) SearchCatalog(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "query parameter q is required"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > h.maxLimit {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: fmt.Sprintf("limit must be an integer between 1 and %d", h.maxLimit),
			})
			return
		}
		limit = n
	}

	response, err := h.search.Search(c.Request.Context(), query, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpsertCartItems handles POST /api/v1/carts/items. A blank cart_id creates a new cart.
func (h *Handler) UpsertCartItems(c *gin.Context) {
	var req upsertCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "invalid cart payload",
			Details: err.Error(),
		})
		return
	}

	h.applyCartItems(c, req.CartID, req.Items)
}

// ReplaceCartItems handles PUT /api/v1/carts/:cartId/items
func (h *Handler) ReplaceCartItems(c *gin.Context) {
	cartID := strings.TrimSpace(c.Param("cartId"))
	if cartID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cart id is required"})
		return
	}

	var req replaceCartItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "invalid cart payload",
			Details: err.Error(),
		})
		return
	}

	h.applyCartItems(c, cartID, req.Items)
}

func (h *Handler) applyCartItems(c *gin.Context, cartID string, lines []cartItemRequest) {
	items := make([]domain.CartItemInput, 0, len(lines))
	var unknown []string
	for _, line := range lines {
		if _, ok := h.catalog.FindByItemID(line.ItemPlatformID); !ok {
			unknown = append(unknown, line.ItemPlatformID)
			continue
		}
		items = append(items, domain.CartItemInput{
			ItemPlatformID: line.ItemPlatformID,
			Qty:            *line.Qty,
		})
	}

	if len(unknown) > 0 {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "unknown catalog item",
			Details: "item_platform_id not in catalog: " + strings.Join(unknown, ", "),
		})
		return
	}

	result, err := h.carts.UpsertItems(c.Request.Context(), cartID, items)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCart handles GET /api/v1/carts/:cartId
func (h *Handler) GetCart(c *gin.Context) {
	snapshot, err := h.carts.GetCartSnapshot(c.Request.Context(), c.Param("cartId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetCartSubtotal handles GET /api/v1/carts/:cartId/subtotal
func (h *Handler) GetCartSubtotal(c *gin.Context) {
	cartID := c.Param("cartId")
	subtotal, err := h.carts.GetSubtotal(c.Request.Context(), cartID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubtotalResponse{CartID: cartID, Subtotal: subtotal})
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrCartNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "cart not found"})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "request cancelled"})
	default:
		logpkg.FromContext(c.Request.Context()).Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
