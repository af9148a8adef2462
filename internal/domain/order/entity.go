// internal/domain/order/entity.go
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when an order id does not exist
var ErrOrderNotFound = errors.New("order not found")

// Order is an immutable snapshot of a cart taken at placement time
type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderNumber string    `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	CartToken   string    `gorm:"not null;size:64;index" json:"cart_token"`
	TotalAmount int64     `gorm:"not null" json:"total_amount"` // In cents
	PlacedAt    time.Time `gorm:"not null" json:"placed_at"`
	CreatedAt   time.Time `json:"created_at"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem represents items in an order
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	BookID     uint      `gorm:"not null;index" json:"book_id"`
	Title      string    `gorm:"not null;size:255" json:"title"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Price      int64     `gorm:"not null" json:"price"`       // Price per unit in cents
	TotalPrice int64     `gorm:"not null" json:"total_price"` // Quantity * Price
	CreatedAt  time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// GetFormattedTotal returns total amount as float
func (o *Order) GetFormattedTotal() float64 {
	return float64(o.TotalAmount) / 100
}

// generateOrderNumber generates a unique order number
func generateOrderNumber(placedAt time.Time) string {
	// Format: ORD-YYYYMMDD-XXXXXXXX
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", placedAt.Format("20060102"), suffix)
}
