// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/order"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *order.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// PlaceOrder handles POST /orders. It turns the session's cart into an order
// and empties the cart.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	token, err := cart.ResolveCartToken(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to resolve cart")
		return
	}

	placed, err := h.orderService.PlaceOrder(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "Failed to place order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    placed,
	})
}

// GetOrder handles GET /orders/:id. Only orders placed from the caller's
// cart are visible.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	// A session without a cart has placed no orders
	token, hasCart, err := cart.LookupCartToken(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to resolve cart")
		return
	}
	if !hasCart {
		respondError(c, order.ErrOrderNotFound, "Failed to retrieve order")
		return
	}

	found, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err == nil && found.CartToken != token {
		err = order.ErrOrderNotFound
	}
	if err != nil {
		respondError(c, err, "Failed to retrieve order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    found,
	})
}
