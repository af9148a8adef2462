// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
)

// CartHandler handles cart endpoints. The cart is always the one bound to
// the caller's session.
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// AddToCartRequest represents the add-to-cart payload
type AddToCartRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	token, ok := h.cartToken(c)
	if !ok {
		return
	}

	cartResponse, err := h.cartService.GetCart(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "Failed to retrieve cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartResponse,
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	token, ok := h.cartToken(c)
	if !ok {
		return
	}

	count, err := h.cartService.GetItemCount(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "Failed to get cart count")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": count,
		},
	})
}

// GetCartTotal handles GET /cart/total
func (h *CartHandler) GetCartTotal(c *gin.Context) {
	token, ok := h.cartToken(c)
	if !ok {
		return
	}

	total, err := h.cartService.GetTotal(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "Failed to get cart total")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart total retrieved successfully",
		"data": gin.H{
			"total": total,
		},
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	token, ok := h.cartToken(c)
	if !ok {
		return
	}

	if err := h.cartService.AddItem(c.Request.Context(), token, req.BookID, req.Quantity); err != nil {
		respondError(c, err, "Failed to add item to cart")
		return
	}

	h.respondWithCart(c, token, "Item added to cart successfully")
}

// IncreaseQuantity handles POST /cart/items/:id/increase
func (h *CartHandler) IncreaseQuantity(c *gin.Context) {
	bookID, ok := h.bookID(c)
	if !ok {
		return
	}
	token, ok := h.cartToken(c)
	if !ok {
		return
	}

	quantity, err := h.cartService.IncreaseQuantity(c.Request.Context(), token, bookID)
	if err != nil {
		respondError(c, err, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data": gin.H{
			"book_id":  bookID,
			"quantity": quantity,
		},
	})
}

// DecreaseQuantity handles POST /cart/items/:id/decrease
func (h *CartHandler) DecreaseQuantity(c *gin.Context) {
	bookID, ok := h.bookID(c)
	if !ok {
		return
	}
	token, ok := h.cartToken(c)
	if !ok {
		return
	}

	quantity, err := h.cartService.DecreaseQuantity(c.Request.Context(), token, bookID)
	if err != nil {
		respondError(c, err, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data": gin.H{
			"book_id":  bookID,
			"quantity": quantity,
		},
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	bookID, ok := h.bookID(c)
	if !ok {
		return
	}
	token, ok := h.cartToken(c)
	if !ok {
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), token, bookID); err != nil {
		respondError(c, err, "Failed to remove item from cart")
		return
	}

	h.respondWithCart(c, token, "Item removed from cart successfully")
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	token, ok := h.cartToken(c)
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), token); err != nil {
		respondError(c, err, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

func (h *CartHandler) respondWithCart(c *gin.Context, token, message string) {
	cartResponse, err := h.cartService.GetCart(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "Failed to retrieve cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    cartResponse,
	})
}

// cartToken resolves the session's cart token, writing the error response on failure
func (h *CartHandler) cartToken(c *gin.Context) (string, bool) {
	token, err := cart.ResolveCartToken(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to resolve cart")
		return "", false
	}
	return token, true
}

func (h *CartHandler) bookID(c *gin.Context) (uint, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
	}
	return id, ok
}
