// internal/domain/cart/repository.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Bound on decrement retries when a concurrent writer moves the row
// between the conditional update and the conditional delete.
const maxDecrementAttempts = 5

var errConcurrentUpdate = errors.New("line item changed concurrently")

// Repository is the cart line item store. Quantity changes are expressed as
// single conditional statements so concurrent requests for the same cart
// never lose updates.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new cart repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// Upsert inserts a line item or adds quantity to the existing one. A merge
// past maxLineQuantity writes nothing and returns ErrInvalidQuantity.
func (r *Repository) Upsert(ctx context.Context, cartToken string, bookID uint, quantity int) error {
	item := CartLineItem{
		CartToken: cartToken,
		BookID:    bookID,
		Quantity:  quantity,
	}

	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_token"}, {Name: "book_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_line_items.quantity + excluded.quantity"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "cart_line_items.quantity + excluded.quantity <= ?", Vars: []interface{}{maxLineQuantity}},
			}},
		}).
		Create(&item)
	if result.Error != nil {
		return storeError("upsert line item", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: merge would exceed %d copies of book %d", ErrInvalidQuantity, maxLineQuantity, bookID)
	}

	return nil
}

// Increment adds one to an existing line item and returns the new quantity.
// It returns 0 without writing when the line item is absent, and
// ErrInvalidQuantity when the line item is already at maxLineQuantity.
func (r *Repository) Increment(ctx context.Context, cartToken string, bookID uint) (int, error) {
	result := r.lineItem(ctx, cartToken, bookID).
		Where("quantity >= ? AND quantity < ?", 1, maxLineQuantity).
		UpdateColumns(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", 1),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, storeError("increment line item", result.Error)
	}
	if result.RowsAffected == 0 {
		exists, err := r.exists(ctx, cartToken, bookID)
		if err != nil || !exists {
			return 0, err
		}
		return 0, fmt.Errorf("%w: book %d is already at %d copies", ErrInvalidQuantity, bookID, maxLineQuantity)
	}

	return r.quantity(ctx, cartToken, bookID)
}

// Decrement removes one from a line item and returns the remaining quantity.
// A line item at quantity 1 is deleted and 0 is returned; an absent line item
// is left alone and 0 is returned.
func (r *Repository) Decrement(ctx context.Context, cartToken string, bookID uint) (int, error) {
	for attempt := 0; attempt < maxDecrementAttempts; attempt++ {
		result := r.lineItem(ctx, cartToken, bookID).
			Where("quantity > ?", 1).
			UpdateColumns(map[string]interface{}{
				"quantity":   gorm.Expr("quantity - ?", 1),
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return 0, storeError("decrement line item", result.Error)
		}
		if result.RowsAffected > 0 {
			return r.quantity(ctx, cartToken, bookID)
		}

		result = r.db.WithContext(ctx).
			Where("cart_token = ? AND book_id = ? AND quantity = ?", cartToken, bookID, 1).
			Delete(&CartLineItem{})
		if result.Error != nil {
			return 0, storeError("delete line item", result.Error)
		}
		if result.RowsAffected > 0 {
			return 0, nil
		}

		exists, err := r.exists(ctx, cartToken, bookID)
		if err != nil || !exists {
			return 0, err
		}
	}

	return 0, storeError("decrement line item", errConcurrentUpdate)
}

// Delete removes a line item and reports whether one existed
func (r *Repository) Delete(ctx context.Context, cartToken string, bookID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("cart_token = ? AND book_id = ?", cartToken, bookID).
		Delete(&CartLineItem{})
	if result.Error != nil {
		return false, storeError("delete line item", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// DeleteAll removes every line item of a cart and returns how many were removed
func (r *Repository) DeleteAll(ctx context.Context, cartToken string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("cart_token = ?", cartToken).
		Delete(&CartLineItem{})
	if result.Error != nil {
		return 0, storeError("clear cart", result.Error)
	}

	return result.RowsAffected, nil
}

// DeleteByIDs removes the given line items of a cart and returns how many were removed
func (r *Repository) DeleteByIDs(ctx context.Context, cartToken string, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Where("cart_token = ? AND id IN ?", cartToken, ids).
		Delete(&CartLineItem{})
	if result.Error != nil {
		return 0, storeError("delete checked out line items", result.Error)
	}

	return result.RowsAffected, nil
}

// List returns a cart's line items in insertion order with their books loaded
func (r *Repository) List(ctx context.Context, cartToken string) ([]CartLineItem, error) {
	return r.list(ctx, cartToken)
}

// ListForUpdate is List with the line item rows locked until the surrounding
// transaction ends. Concurrent writers to those rows wait; new rows are not
// blocked.
func (r *Repository) ListForUpdate(ctx context.Context, cartToken string) ([]CartLineItem, error) {
	return r.list(ctx, cartToken, clause.Locking{Strength: "UPDATE"})
}

func (r *Repository) list(ctx context.Context, cartToken string, clauses ...clause.Expression) ([]CartLineItem, error) {
	items := []CartLineItem{}
	err := r.db.WithContext(ctx).
		Clauses(clauses...).
		Preload("Book").
		Where("cart_token = ?", cartToken).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, storeError("list line items", err)
	}

	return items, nil
}

// Total returns the sum of quantity times unit price over a cart, in cents
func (r *Repository) Total(ctx context.Context, cartToken string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&CartLineItem{}).
		Select("CAST(COALESCE(SUM(cart_line_items.quantity * books.price), 0) AS BIGINT)").
		Joins("JOIN books ON books.id = cart_line_items.book_id").
		Where("cart_line_items.cart_token = ?", cartToken).
		Scan(&total).Error
	if err != nil {
		return 0, storeError("sum cart total", err)
	}

	return total, nil
}

// Count returns the sum of quantities over a cart
func (r *Repository) Count(ctx context.Context, cartToken string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&CartLineItem{}).
		Select("CAST(COALESCE(SUM(quantity), 0) AS BIGINT)").
		Where("cart_token = ?", cartToken).
		Scan(&count).Error
	if err != nil {
		return 0, storeError("count cart items", err)
	}

	return int(count), nil
}

func (r *Repository) lineItem(ctx context.Context, cartToken string, bookID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&CartLineItem{}).
		Where("cart_token = ? AND book_id = ?", cartToken, bookID)
}

func (r *Repository) exists(ctx context.Context, cartToken string, bookID uint) (bool, error) {
	var count int64
	if err := r.lineItem(ctx, cartToken, bookID).Count(&count).Error; err != nil {
		return false, storeError("count line item", err)
	}
	return count > 0, nil
}

func (r *Repository) quantity(ctx context.Context, cartToken string, bookID uint) (int, error) {
	var item CartLineItem
	err := r.db.WithContext(ctx).
		Select("quantity").
		Where("cart_token = ? AND book_id = ?", cartToken, bookID).
		First(&item).Error
	if err != nil {
		return 0, storeError("read line item", err)
	}

	return item.Quantity, nil
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
