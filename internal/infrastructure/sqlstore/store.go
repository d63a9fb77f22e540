package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Supported database/sql driver names
const (
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

// Options configures the connection pool
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// Store is a product catalog backed by a SQL database
type Store struct {
	db     *sql.DB
	driver string
}

// Open creates the connection pool, verifies it with a ping and ensures the
// products table exists.
func Open(ctx context.Context, opts Options) (*Store, error) {
	driver, err := normalizeDriver(opts.Driver)
	if err != nil {
		return nil, err
	}

	dsn, err := connectionDSN(driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	lifetime := opts.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = 5 * time.Minute
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(lifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	store := New(db, driver)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[SQL] Connected to %s catalog", driver)
	return store, nil
}

// New wraps an existing pool
func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// Close releases the pool
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the products table when missing
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema(s.driver)); err != nil {
		return fmt.Errorf("migrate products table: %w", err)
	}
	return nil
}

func normalizeDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "pgx", "postgres", "postgresql":
		return DriverPostgres, nil
	case "mysql", "mariadb":
		return DriverMySQL, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// connectionDSN forces parseTime on MySQL DSNs so DATETIME columns scan
// into time.Time.
func connectionDSN(driver, dsn string) (string, error) {
	if driver != DriverMySQL {
		return dsn, nil
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func schema(driver string) string {
	if driver == DriverMySQL {
		return `CREATE TABLE IF NOT EXISTS products (
	id VARCHAR(128) PRIMARY KEY,
	slug VARCHAR(255) NOT NULL,
	name VARCHAR(255) NOT NULL,
	name_ar VARCHAR(255) NOT NULL DEFAULT '',
	description TEXT,
	description_ar TEXT,
	price DECIMAL(12,2) NOT NULL DEFAULT 0,
	discount DECIMAL(12,4) NULL,
	discount_type VARCHAR(32) NOT NULL DEFAULT 'PERCENTAGE',
	stock_quantity INT NULL,
	image_url TEXT,
	variations JSON,
	updated_at DATETIME(6) NOT NULL
)`
	}
	return `CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	slug TEXT NOT NULL,
	name TEXT NOT NULL,
	name_ar TEXT NOT NULL DEFAULT '',
	description TEXT,
	description_ar TEXT,
	price NUMERIC(12,2) NOT NULL DEFAULT 0,
	discount NUMERIC(12,4),
	discount_type TEXT NOT NULL DEFAULT 'PERCENTAGE',
	stock_quantity INTEGER,
	image_url TEXT,
	variations JSONB,
	updated_at TIMESTAMPTZ NOT NULL
)`
}

// rebind rewrites ? placeholders to $n for postgres
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
