// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	// Bound on a shared lookup, which outlives any single caller's context
	lookupTimeout = 5 * time.Second

	// Deepest page served; keeps the row offset small
	maxPage = 10000
)

// Service handles read-only catalog lookups
type Service struct {
	db  *gorm.DB
	sfg singleflight.Group
}

// NewService creates a new catalog service
func NewService(db *gorm.DB) *Service {
	return &Service{
		db: db,
	}
}

// BookListResponse represents a page of books
type BookListResponse struct {
	Books      []Book     `json:"books"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetBook retrieves a single book by ID. Concurrent lookups of the same ID
// share one query; a caller whose context ends stops waiting without
// failing the others.
func (s *Service) GetBook(ctx context.Context, id uint) (*Book, error) {
	ch := s.sfg.DoChan(strconv.FormatUint(uint64(id), 10), func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()

		var book Book
		result := s.db.WithContext(lookupCtx).Where("id = ?", id).First(&book)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil, ErrBookNotFound
			}
			return nil, fmt.Errorf("failed to retrieve book: %w", result.Error)
		}
		return &book, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Callers get their own copy
		book := *res.Val.(*Book)
		return &book, nil
	}
}

// ListBooks retrieves books ordered by title
func (s *Service) ListBooks(ctx context.Context, page, limit int) (*BookListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&Book{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	books := []Book{}
	err := s.db.WithContext(ctx).
		Order("title ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve books: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &BookListResponse{
		Books: books,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}
