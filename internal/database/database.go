package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var err error

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	} else {
		// PostgreSQL for production
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create tables manually with raw SQL. IDs are uuid strings assigned by
	// the model BeforeCreate hooks, so the same DDL works on both drivers.
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		shopify_customer_id TEXT UNIQUE NOT NULL,
		first_name TEXT,
		last_name TEXT,
		email TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		shopify_order_id TEXT UNIQUE NOT NULL,
		name TEXT,
		total_price DECIMAL(10,2),
		currency TEXT DEFAULT 'USD',
		order_status TEXT,
		customer_id TEXT NOT NULL REFERENCES customers(id),
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS line_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id),
		title TEXT,
		quantity INTEGER NOT NULL DEFAULT 0,
		price DECIMAL(10,2),
		sku TEXT,
		product_id TEXT,
		variant_id TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_line_items_order_id ON line_items(order_id);

	CREATE TABLE IF NOT EXISTS addresses (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id),
		kind TEXT NOT NULL,
		first_name TEXT,
		last_name TEXT,
		address1 TEXT,
		address2 TEXT,
		city TEXT,
		province TEXT,
		zip TEXT,
		country TEXT,
		phone TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_addresses_order_id ON addresses(order_id);
	`

	if strings.HasPrefix(databaseURL, "sqlite://") {
		createTablesSQL = strings.ReplaceAll(createTablesSQL, "TIMESTAMPTZ DEFAULT NOW()", "DATETIME DEFAULT CURRENT_TIMESTAMP")
	}

	err = db.Exec(createTablesSQL).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
