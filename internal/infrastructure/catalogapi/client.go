package catalogapi

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beanery/storefront/internal/domain"
	"golang.org/x/time/rate"
)

const maxAttempts = 3

// Client fetches products from the upstream catalog API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *rate.Limiter
	debug       bool
	sleep       func(ctx context.Context, d time.Duration) error
}

// Config holds upstream client settings
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RequestsPerSecond bounds outgoing traffic; Burst is the bucket size
	RequestsPerSecond float64
	Burst             int
}

// NewClient creates a new catalog API client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 20
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 40
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		sleep:       sleepContext,
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the delay before retrying after the given attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// doRequest executes an HTTP GET request with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Beanery-Storefront/1.0")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	return resp, nil
}

// GetProduct fetches one product with its variation catalog.
// Transient failures are retried up to three times with exponential backoff;
// a 404 is final and maps to ErrProductNotFound.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	reqURL := fmt.Sprintf("%s/api/products/%s", c.baseURL, url.PathEscape(id))
	if c.debug {
		log.Printf("[CATALOG-API] GET %s", reqURL)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			log.Printf("[CATALOG-API] Rate limiter error: %v", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		body, status, err := c.fetch(ctx, reqURL)
		switch {
		case err != nil:
			log.Printf("[CATALOG-API] Request error (attempt %d): %v", attempt, err)
			lastErr = err
		case status == http.StatusNotFound:
			return nil, domain.ErrProductNotFound
		case status != http.StatusOK:
			log.Printf("[CATALOG-API] API error (attempt %d) - Status: %d, Body: %s", attempt, status, truncate(body, 200))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, status)
		default:
			product, err := MapProduct(body)
			if err != nil {
				log.Printf("[CATALOG-API] Decode error for product %q: %v", id, err)
				return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
			}
			if product.ID == "" {
				product.ID = id
			}
			if c.debug {
				log.Printf("[CATALOG-API] Product %q has %d variations", id, len(product.Variations))
			}
			return product, nil
		}

		if attempt < maxAttempts {
			if err := c.sleep(ctx, exponentialBackoff(attempt)); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
			}
		}
	}

	log.Printf("[CATALOG-API] All retries failed for product %q", id)
	return nil, lastErr
}

func (c *Client) fetch(ctx context.Context, reqURL string) ([]byte, int, error) {
	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: reading body: %v", domain.ErrUpstreamFailure, err)
	}
	return body, resp.StatusCode, nil
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
