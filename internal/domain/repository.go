package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque JSON payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ProductRepository fetches a product together with its variation catalog
type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
}

// ProductWriter is implemented by catalog sources that accept back-office writes
type ProductWriter interface {
	ListProducts(ctx context.Context) ([]Product, error)
	SaveProduct(ctx context.Context, product *Product) error
}

// ConversionTracker forwards analytics events to a server-side conversion API
type ConversionTracker interface {
	Track(ctx context.Context, event ConversionEvent) error
}
