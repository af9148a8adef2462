// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"gorm.io/gorm"
)

// Service turns carts into orders
type Service struct {
	db          *gorm.DB
	cartService *cart.Service
	logger      *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, cartService *cart.Service, logger *logrus.Logger) *Service {
	return &Service{
		db:          db,
		cartService: cartService,
		logger:      logger,
	}
}

// PlaceOrder snapshots the cart into a new order and empties the cart.
// Both happen in one transaction: a failed order leaves the cart untouched.
func (s *Service) PlaceOrder(ctx context.Context, cartToken string) (*Order, error) {
	var order Order

	err := s.cartService.Checkout(ctx, cartToken, func(tx *gorm.DB, c *cart.CartResponse) error {
		placedAt := time.Now().UTC()

		order = Order{
			OrderNumber: generateOrderNumber(placedAt),
			CartToken:   cartToken,
			TotalAmount: c.Totals.TotalAmount,
			PlacedAt:    placedAt,
			Items:       make([]OrderItem, 0, len(c.Items)),
		}

		for _, item := range c.Items {
			order.Items = append(order.Items, OrderItem{
				BookID:     item.BookID,
				Title:      item.Title,
				Quantity:   item.Quantity,
				Price:      item.UnitPrice,
				TotalPrice: item.LineTotal,
			})
		}

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"cart_token":   cartToken,
		"total_amount": order.TotalAmount,
		"items":        len(order.Items),
	}).Info("Order placed")

	return &order, nil
}

// GetOrder retrieves a single order by ID
func (s *Service) GetOrder(ctx context.Context, id uint) (*Order, error) {
	var order Order
	result := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("id = ?", id).
		First(&order)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}

	return &order, nil
}
