// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// Catalog domain - Base tables
		&catalog.Book{},

		// Cart domain
		&cart.CartLineItem{},

		// Order domain - Dependent tables
		&order.Order{},
		&order.OrderItem{},
	}

	// Run auto-migration for each model
	for _, model := range models {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	m.logger.Info("🔄 Creating additional database indexes...")

	indexes := []string{
		// Book indexes
		"CREATE INDEX IF NOT EXISTS idx_books_title ON books(title)",
		"CREATE INDEX IF NOT EXISTS idx_books_author ON books(author)",

		// Cart line item indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_line_items_book ON cart_line_items(book_id)",
		"CREATE INDEX IF NOT EXISTS idx_cart_line_items_updated_at ON cart_line_items(updated_at)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_placed_at ON orders(placed_at DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warnf("⚠️ Failed to create index: %s", indexSQL)
			failCount++
		} else {
			successCount++
		}
	}

	m.logger.Infof("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	m.logger.Info("🌱 Seeding initial data...")

	if err := m.seedBooks(); err != nil {
		return fmt.Errorf("failed to seed books: %w", err)
	}

	m.logger.Info("✅ Initial data seeded successfully")
	return nil
}

// seedBooks creates a starter catalog. Existing ISBNs are left alone.
func (m *Migration) seedBooks() error {
	m.logger.Info("📚 Seeding books...")

	books := []catalog.Book{
		{ISBN: "978-0441172719", Title: "Dune", Author: "Frank Herbert", Price: 1099},
		{ISBN: "978-0141439518", Title: "Pride and Prejudice", Author: "Jane Austen", Price: 799},
		{ISBN: "978-0451524935", Title: "1984", Author: "George Orwell", Price: 999},
		{ISBN: "978-0061120084", Title: "To Kill a Mockingbird", Author: "Harper Lee", Price: 1499},
		{ISBN: "978-0134190440", Title: "The Go Programming Language", Author: "Alan Donovan, Brian Kernighan", Price: 3999},
	}

	for _, book := range books {
		var existing catalog.Book
		if err := m.db.Where("isbn = ?", book.ISBN).Attrs(book).FirstOrCreate(&existing).Error; err != nil {
			return fmt.Errorf("failed to create book %s: %w", book.ISBN, err)
		}
	}

	return nil
}

// GetTableInfo logs row counts for every table
func (m *Migration) GetTableInfo() error {
	tables, err := m.db.Migrator().GetTables()
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	m.logger.Info("📊 Database Tables Information:")

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count rows in %s: %w", table, err)
		}
		totalRecords += count

		m.logger.WithFields(logrus.Fields{
			"table":   table,
			"records": count,
		}).Info("Table")
	}

	m.logger.Infof("📈 Total records across all tables: %d", totalRecords)
	m.logger.Infof("🗂️ Total tables: %d", len(tables))

	return nil
}
