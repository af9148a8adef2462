// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
)

// CatalogHandler handles book endpoints
type CatalogHandler struct {
	catalogService *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// BookListRequest holds the storefront paging parameters
type BookListRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// GetBooks handles GET /books
func (h *CatalogHandler) GetBooks(c *gin.Context) {
	var req BookListRequest

	// Bind query parameters
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.catalogService.ListBooks(c.Request.Context(), req.Page, req.Limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve books")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Books retrieved successfully",
		"data":    response,
	})
}

// GetBook handles GET /books/:id
func (h *CatalogHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return
	}

	book, err := h.catalogService.GetBook(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve book")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book retrieved successfully",
		"data":    book,
	})
}
