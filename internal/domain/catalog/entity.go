// internal/domain/catalog/entity.go
package catalog

import (
	"errors"
	"time"
)

// ErrBookNotFound is returned when a book id does not resolve to a catalog entry
var ErrBookNotFound = errors.New("book not found")

// Book represents a purchasable catalog item
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ISBN      string    `gorm:"uniqueIndex;not null;size:20" json:"isbn"`
	Title     string    `gorm:"not null;size:255" json:"title"`
	Author    string    `gorm:"size:255" json:"author"`
	Price     int64     `gorm:"not null" json:"price"` // Price in cents
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Book) TableName() string {
	return "books"
}

// GetFormattedPrice returns price as float
func (b *Book) GetFormattedPrice() float64 {
	return float64(b.Price) / 100
}
