// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// Catalog resolves book identities for the cart
type Catalog interface {
	GetBook(ctx context.Context, id uint) (*catalog.Book, error)
}

// CheckoutFunc receives the cart contents inside the checkout transaction
type CheckoutFunc func(tx *gorm.DB, cart *CartResponse) error

// Service handles cart business logic. Every call runs in exactly one store
// transaction bounded by the configured store timeout; nothing is cached
// between calls.
type Service struct {
	db      *gorm.DB
	catalog Catalog
	timeout time.Duration
	logger  *logrus.Logger
}

// NewService creates a new cart service
func NewService(db *gorm.DB, books Catalog, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:      db,
		catalog: books,
		timeout: cfg.Cart.StoreTimeout,
		logger:  logger,
	}
}

// GetLineItems returns the cart's line items in insertion order, joined with catalog data
func (s *Service) GetLineItems(ctx context.Context, cartToken string) ([]CartLineItem, error) {
	var items []CartLineItem
	err := s.transaction(ctx, cartToken, func(ctx context.Context, repo *Repository) error {
		var err error
		items, err = repo.List(ctx, cartToken)
		return err
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// GetTotal returns the sum of quantity times unit price, in cents. An empty cart totals 0.
func (s *Service) GetTotal(ctx context.Context, cartToken string) (int64, error) {
	var total int64
	err := s.transaction(ctx, cartToken, func(ctx context.Context, repo *Repository) error {
		var err error
		total, err = repo.Total(ctx, cartToken)
		return err
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

// GetCart returns the cart view: line items and totals read in one transaction
func (s *Service) GetCart(ctx context.Context, cartToken string) (*CartResponse, error) {
	var resp *CartResponse
	err := s.transaction(ctx, cartToken, func(ctx context.Context, repo *Repository) error {
		items, err := repo.List(ctx, cartToken)
		if err != nil {
			return err
		}
		resp = newCartResponse(cartToken, items)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// GetItemCount returns the number of books in the cart, counting quantities
func (s *Service) GetItemCount(ctx context.Context, cartToken string) (int, error) {
	var count int
	err := s.transaction(ctx, cartToken, func(ctx context.Context, repo *Repository) error {
		var err error
		count, err = repo.Count(ctx, cartToken)
		return err
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// AddItem adds quantity copies of a book to the cart, merging with an
// existing line item for the same book. A merge that would take the line
// item past maxLineQuantity is rejected and leaves it unchanged.
func (s *Service) AddItem(ctx context.Context, cartToken string, bookID uint, quantity int) error {
	if quantity <= 0 || quantity > maxLineQuantity {
		return ErrInvalidQuantity
	}
	if cartToken == "" {
		return ErrSessionUnavailable
	}

	if err := s.ensureBook(ctx, bookID); err != nil {
		return err
	}

	return s.transaction(ctx, cartToken, func(ctx context.Context, repo *Repository) error {
		return repo.Upsert(ctx, cartToken, bookID, quantity)
	})
}

// IncreaseQuantity adds one to an existing line item and returns the new
// quantity. An absent line item is left absent and 0 is returned; a line
// item already at maxLineQuantity yields ErrInvalidQuantity.
func (s *Service) IncreaseQuantity(ctx context.Context, cartToken string, bookID uint) (int, error) {
	var quantity int
	err := s.transaction(ctx, cartToken, func(ctx context.Context, repo *Repository) error {
		var err error
		quantity, err = repo.Increment(ctx, cartToken, bookID)
		return err
	})
	if err != nil {
		return 0, err
	}

	return quantity, nil
}

// DecreaseQuantity removes one from a line item and returns the remaining
// quantity. The line item is deleted instead of reaching 0; an absent line
// item is a no-op returning 0.
func (s *Service) DecreaseQuantity(ctx context.Context, cartToken string, bookID uint) (int, error) {
	var quantity int
	err := s.transaction(ctx, cartToken, func(ctx context.Context, repo *Repository) error {
		var err error
		quantity, err = repo.Decrement(ctx, cartToken, bookID)
		return err
	})
	if err != nil {
		return 0, err
	}

	return quantity, nil
}

// RemoveItem deletes a line item regardless of its quantity. No-op when absent.
func (s *Service) RemoveItem(ctx context.Context, cartToken string, bookID uint) error {
	return s.transaction(ctx, cartToken, func(ctx context.Context, repo *Repository) error {
		removed, err := repo.Delete(ctx, cartToken, bookID)
		if err != nil {
			return err
		}
		if removed {
			s.logger.WithFields(logrus.Fields{
				"cart_token": cartToken,
				"book_id":    bookID,
			}).Debug("Removed line item from cart")
		}
		return nil
	})
}

// ClearCart deletes every line item of the cart. No-op when already empty.
func (s *Service) ClearCart(ctx context.Context, cartToken string) error {
	return s.transaction(ctx, cartToken, func(ctx context.Context, repo *Repository) error {
		_, err := repo.DeleteAll(ctx, cartToken)
		return err
	})
}

// Checkout reads the cart, hands it to fn and removes the line items fn saw,
// all in one transaction. The snapshotted rows stay locked until commit, so
// no concurrent change to them is lost; line items added meanwhile remain
// in the cart. If fn fails nothing is removed.
func (s *Service) Checkout(ctx context.Context, cartToken string, fn CheckoutFunc) error {
	return s.transactionTx(ctx, cartToken, func(ctx context.Context, tx *gorm.DB) error {
		repo := NewRepository(tx)

		items, err := repo.ListForUpdate(ctx, cartToken)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		if err := fn(tx.WithContext(ctx), newCartResponse(cartToken, items)); err != nil {
			return err
		}

		ids := make([]uint, len(items))
		for i, item := range items {
			ids[i] = item.ID
		}
		_, err = repo.DeleteByIDs(ctx, cartToken, ids)
		return err
	})
}

func (s *Service) ensureBook(ctx context.Context, bookID uint) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.catalog.GetBook(ctx, bookID); err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			return fmt.Errorf("%w: book %d", ErrUnknownItem, bookID)
		}
		return storeError("lookup book", err)
	}

	return nil
}

func (s *Service) transaction(ctx context.Context, cartToken string, fn func(ctx context.Context, repo *Repository) error) error {
	return s.transactionTx(ctx, cartToken, func(ctx context.Context, tx *gorm.DB) error {
		return fn(ctx, NewRepository(tx))
	})
}

func (s *Service) transactionTx(ctx context.Context, cartToken string, fn func(ctx context.Context, tx *gorm.DB) error) error {
	if cartToken == "" {
		return ErrSessionUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(ctx, tx)
		return fnErr
	})
	if err == nil {
		return nil
	}

	// Begin and commit failures never reach fn
	if fnErr == nil {
		err = storeError("transaction", err)
	}

	if errors.Is(err, ErrStoreUnavailable) {
		s.logger.WithFields(logrus.Fields{
			"cart_token": cartToken,
			"error":      err.Error(),
		}).Error("Cart store transaction failed")
	}

	return err
}
