package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product cannot be found in the catalog
	ErrProductNotFound = errors.New("product not found")

	// ErrNoMatchingVariant is returned when no variant satisfies the current selection
	ErrNoMatchingVariant = errors.New("no variant matches the selection")

	// ErrOutOfStock is returned when the resolved variant or product has no stock
	ErrOutOfStock = errors.New("out of stock")

	// ErrCatalogUnavailable is returned when the product or its variations cannot be fetched
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrUpstreamFailure is returned when the upstream catalog API request fails
	ErrUpstreamFailure = errors.New("upstream catalog request failed")

	// ErrCatalogReadOnly is returned when the configured catalog source does not accept writes
	ErrCatalogReadOnly = errors.New("catalog source is read-only")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidDiscount is returned when a discount is outside its canonical range
	ErrInvalidDiscount = errors.New("invalid discount")

	// ErrDuplicateVariant is returned when two variants share the same facet values
	ErrDuplicateVariant = errors.New("duplicate variant facet combination")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCartNotFound is returned when a cart id is unknown or expired
	ErrCartNotFound = errors.New("cart not found")

	// ErrCartLineNotFound is returned when a cart line id is unknown
	ErrCartLineNotFound = errors.New("cart line not found")

	// ErrUnauthorized is returned for missing or invalid admin credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
