package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/beanery/storefront/internal/domain"
	"github.com/beanery/storefront/internal/i18n"
)

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL           time.Duration
	Currency           string
	EnableDebugLogging bool
}

// CatalogService loads product catalogs with caching and builds product views
type CatalogService struct {
	cache              domain.CacheRepository
	products           domain.ProductRepository
	resolver           *VariationResolver
	prices             *PriceCalculator
	events             *EventDispatcher
	cacheTTL           time.Duration
	currency           string
	enableDebugLogging bool
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	cache domain.CacheRepository,
	products domain.ProductRepository,
	events *EventDispatcher,
	config CatalogServiceConfig,
) *CatalogService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	currency := config.Currency
	if currency == "" {
		currency = "SAR"
	}

	return &CatalogService{
		cache:              cache,
		products:           products,
		resolver:           NewVariationResolver(config.EnableDebugLogging),
		prices:             NewPriceCalculator(),
		events:             events,
		cacheTTL:           cacheTTL,
		currency:           currency,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// ViewRequest asks for a product page
type ViewRequest struct {
	ProductID string
	// Selection is nil for a fresh page view
	Selection *domain.Selection
	Lang      domain.Language
	Client    ClientInfo
}

// VariantView is a resolved variant with facet labels in the display language
type VariantView struct {
	ID            string  `json:"id"`
	Weight        string  `json:"weight,omitempty"`
	Beans         string  `json:"beans,omitempty"`
	Additions     string  `json:"additions,omitempty"`
	Price         float64 `json:"price"`
	StockQuantity *int    `json:"stockQuantity,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	Synthetic     bool    `json:"synthetic,omitempty"`
}

// ProductView is everything a product page needs after one resolution pass
type ProductView struct {
	ProductID   string           `json:"productId"`
	Slug        string           `json:"slug"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	Currency    string           `json:"currency"`
	Options     FacetOptions     `json:"options"`
	Selection   domain.Selection `json:"selection"`
	Variant     *VariantView     `json:"variant"`
	Price       PriceView        `json:"price"`
	Stock       StockView        `json:"stock"`
	Purchasable bool             `json:"purchasable"`
	Notices     []domain.Notice  `json:"notices"`
}

// GetProduct returns a product and its variation catalog.
// Flow: check cache -> fetch from the catalog source -> cache -> return.
// Fetch failures surface as ErrCatalogUnavailable; no placeholder data is substituted.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := productCacheKey(id)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		return cached, nil
	}

	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		log.Printf("[CATALOG] Fetch failed for product %q: %v", id, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	if err := s.setInCache(ctx, cacheKey, product); err != nil {
		log.Printf("[CATALOG] Cache write failed for product %q: %v", id, err)
	}

	return product, nil
}

// Invalidate drops a cached product after a back-office write
func (s *CatalogService) Invalidate(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, productCacheKey(id))
}

// ViewProduct resolves the selection (or the initial selection when none
// is given) and returns the product page state.
func (s *CatalogService) ViewProduct(ctx context.Context, req ViewRequest) (*ProductView, error) {
	product, err := s.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	lang := req.Lang
	view := &ProductView{
		ProductID:   product.ID,
		Slug:        product.Slug,
		Name:        i18n.Pick(lang, product.Name, product.NameAr),
		Description: i18n.Pick(lang, product.Description, product.DescriptionAr),
		ImageURL:    product.ImageURL,
		Currency:    s.currency,
		Options:     s.resolver.Options(product.Variations, lang),
		Notices:     []domain.Notice{},
	}

	if req.Selection != nil {
		view.Selection = *req.Selection
	} else {
		view.Selection = s.resolver.InitialSelection(product.Variations, lang)
	}

	variant := s.resolver.Resolve(view.Selection, product.Variations, lang)
	pricing := product.Pricing()
	if variant != nil {
		pricing = variant.Pricing()
		view.Variant = newVariantView(*variant, lang)
		if variant.ImageURL != "" {
			view.ImageURL = variant.ImageURL
		}
	}

	view.Price = s.prices.View(pricing)
	stock := AvailableStock(variant, product)
	view.Stock = stockView(stock)

	switch {
	case len(product.Variations) > 0 && variant == nil:
		view.Notices = append(view.Notices, domain.Notice{Level: domain.NoticeInfo, Code: domain.NoticeSelectVariation})
	case IsOutOfStock(stock):
		view.Notices = append(view.Notices, domain.Notice{Level: domain.NoticeWarning, Code: domain.NoticeOutOfStock})
	default:
		view.Purchasable = true
	}

	if req.Selection == nil && s.events != nil {
		event := req.Client.event(domain.EventViewItem, s.currency)
		event.ProductID = product.ID
		event.ItemName = product.Name
		event.Value = view.Price.Current
		event.Quantity = 1
		if variant != nil {
			event.VariantID = variant.ID
		}
		s.events.Dispatch(event)
	}

	return view, nil
}

// Resolve exposes the resolver for callers that already hold a product
func (s *CatalogService) Resolve(product *domain.Product, sel domain.Selection, lang domain.Language) *domain.Variant {
	return s.resolver.Resolve(sel, product.Variations, lang)
}

// Prices returns the price calculator used by the service
func (s *CatalogService) Prices() *PriceCalculator {
	return s.prices
}

// Currency returns the display currency
func (s *CatalogService) Currency() string {
	return s.currency
}

func newVariantView(v domain.Variant, lang domain.Language) *VariantView {
	return &VariantView{
		ID:            v.ID,
		Weight:        normalizeFacetLabel(v.Weight.Label(lang)),
		Beans:         normalizeFacetLabel(v.Beans.Label(lang)),
		Additions:     normalizeFacetLabel(v.Additions.Label(lang)),
		Price:         v.Price,
		StockQuantity: v.StockQuantity,
		ImageURL:      v.ImageURL,
		Synthetic:     v.Synthetic,
	}
}

// productCacheKey creates the cache key of a product.
// Format: "product:{id}"
func productCacheKey(id string) string {
	return "product:" + strings.TrimSpace(id)
}

func (s *CatalogService) getFromCache(ctx context.Context, key string) (*domain.Product, error) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		if s.enableDebugLogging {
			log.Printf("[CATALOG] Dropping undecodable cache entry %q: %v", key, err)
		}
		return nil, domain.ErrCacheMiss
	}
	return &product, nil
}

func (s *CatalogService) setInCache(ctx context.Context, key string, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}
