// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/order"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, cart.ErrSessionStoreUnavailable),
		errors.Is(err, cart.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrSessionUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, cart.ErrUnknownItem),
		errors.Is(err, catalog.ErrBookNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, cart.ErrEmptyCart):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body. Server-side failures hide
// their cause from the client and record it on the gin context for the
// access log.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		message = fallback
	}

	c.JSON(status, gin.H{
		"error": message,
	})
}

// parseID parses a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
