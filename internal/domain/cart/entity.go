// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/bookstore-backend/internal/domain/catalog"
)

// Upper bound on a single line item's quantity. Keeps quantity times unit
// price well inside int64 cents. Mirrored by the quantity CHECK constraint.
const maxLineQuantity = 10000

// CartLineItem represents one book held in a session cart.
// (cart_token, book_id) is unique and quantity stays within 1..maxLineQuantity.
type CartLineItem struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	CartToken string       `gorm:"not null;size:64;uniqueIndex:idx_cart_line_items_token_book" json:"cart_token"`
	BookID    uint         `gorm:"not null;uniqueIndex:idx_cart_line_items_token_book" json:"book_id"`
	Quantity  int          `gorm:"not null;check:chk_cart_line_items_quantity_range,quantity >= 1 AND quantity <= 10000" json:"quantity"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Book      catalog.Book `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"book"`
}

// TableName overrides the table name
func (CartLineItem) TableName() string {
	return "cart_line_items"
}

// LineTotal returns quantity times the book's unit price, in cents
func (i *CartLineItem) LineTotal() int64 {
	return i.Book.Price * int64(i.Quantity)
}

// CartItemResponse represents a line item joined with catalog data
type CartItemResponse struct {
	BookID    uint      `json:"book_id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	LineTotal int64     `json:"line_total"`
	AddedAt   time.Time `json:"added_at"`
}

// CartTotals represents calculated cart totals
type CartTotals struct {
	ItemCount     int   `json:"item_count"`     // Number of unique items
	TotalQuantity int   `json:"total_quantity"` // Sum of all quantities
	TotalAmount   int64 `json:"total_amount"`   // In cents
}

// CartResponse represents a shopping cart with items and summary
type CartResponse struct {
	CartToken string             `json:"cart_token"`
	Items     []CartItemResponse `json:"items"`
	Totals    CartTotals         `json:"totals"`
}

func newCartResponse(cartToken string, items []CartLineItem) *CartResponse {
	resp := &CartResponse{
		CartToken: cartToken,
		Items:     make([]CartItemResponse, len(items)),
	}

	for i, item := range items {
		resp.Items[i] = CartItemResponse{
			BookID:    item.BookID,
			Title:     item.Book.Title,
			Author:    item.Book.Author,
			UnitPrice: item.Book.Price,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
			AddedAt:   item.CreatedAt,
		}
	}
	resp.Totals = calculateTotals(resp.Items)

	return resp
}

func calculateTotals(items []CartItemResponse) CartTotals {
	var totals CartTotals

	totals.ItemCount = len(items)
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.TotalAmount += item.LineTotal
	}

	return totals
}
