package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/beanery/storefront/internal/domain"
	"github.com/beanery/storefront/internal/i18n"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartServiceConfig holds configuration for the cart service
type CartServiceConfig struct {
	CartTTL time.Duration
}

// CartService manages session carts stored in the cache. Changes to the
// same cart are serialized.
type CartService struct {
	cache   domain.CacheRepository
	catalog *CatalogService
	events  *EventDispatcher
	cartTTL time.Duration
	now     func() time.Time
	locks   cartLocks
}

const cartLockStripes = 64

// cartLocks is a fixed set of mutexes striped by cart id
type cartLocks [cartLockStripes]sync.Mutex

// lock acquires the stripe of a cart and returns its unlock func
func (l *cartLocks) lock(cartID string) func() {
	h := fnv.New32a()
	h.Write([]byte(strings.TrimSpace(cartID)))
	m := &l[h.Sum32()%cartLockStripes]
	m.Lock()
	return m.Unlock
}

// NewCartService creates a new cart service with dependencies
func NewCartService(
	cache domain.CacheRepository,
	catalog *CatalogService,
	events *EventDispatcher,
	config CartServiceConfig,
) *CartService {
	cartTTL := config.CartTTL
	if cartTTL == 0 {
		cartTTL = 72 * time.Hour
	}

	return &CartService{
		cache:   cache,
		catalog: catalog,
		events:  events,
		cartTTL: cartTTL,
		now:     time.Now,
	}
}

// CreateCart starts an empty cart
func (s *CartService) CreateCart(ctx context.Context) (*domain.Cart, error) {
	now := s.now().UTC()
	cart := &domain.Cart{
		ID:        uuid.NewString(),
		Lines:     []domain.CartLine{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetCart loads a cart by id
func (s *CartService) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, domain.ErrInvalidRequest
	}

	data, err := s.cache.Get(ctx, cartCacheKey(cartID))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.ErrCartNotFound
		}
		return nil, err
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		log.Printf("[CART] Corrupt cart %q: %v", cartID, err)
		return nil, domain.ErrCartNotFound
	}
	return &cart, nil
}

// AddItem resolves the selection against the product catalog and adds the
// result as a line. Quantities merge into an existing line for the same
// variant and are clamped to the available stock.
func (s *CartService) AddItem(
	ctx context.Context,
	cartID string,
	req domain.AddToCartRequest,
	lang domain.Language,
	client ClientInfo,
) (*domain.Cart, []domain.Notice, error) {
	if strings.TrimSpace(req.ProductID) == "" {
		return nil, nil, domain.ErrInvalidRequest
	}

	unlock := s.locks.lock(cartID)
	defer unlock()

	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, nil, err
	}

	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			return nil, []domain.Notice{{Level: domain.NoticeError, Code: domain.NoticeCatalogUnavailable}}, err
		}
		return nil, nil, err
	}

	var variant *domain.Variant
	if len(product.Variations) > 0 {
		variant = s.catalog.Resolve(product, req.Selection, lang)
		if variant == nil {
			return nil, []domain.Notice{{Level: domain.NoticeError, Code: domain.NoticeSelectVariation}}, domain.ErrNoMatchingVariant
		}
	}

	stock := AvailableStock(variant, product)
	if IsOutOfStock(stock) {
		return nil, []domain.Notice{{Level: domain.NoticeError, Code: domain.NoticeOutOfStock}}, domain.ErrOutOfStock
	}

	line := s.newLine(product, variant, lang)
	requested := req.Quantity
	if requested < 1 {
		requested = 1
	}

	idx := findLine(cart.Lines, line.ID)
	if idx >= 0 {
		requested += cart.Lines[idx].Quantity
	}

	quantity, notice := ClampQuantity(requested, *stock)
	line.Quantity = quantity
	line.MaxQuantity = *stock

	if idx >= 0 {
		cart.Lines[idx] = line
	} else {
		cart.Lines = append(cart.Lines, line)
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, nil, err
	}

	notices := []domain.Notice{{Level: domain.NoticeSuccess, Code: domain.NoticeAddedToCart}}
	if notice != nil {
		notices = append(notices, *notice)
	}

	if s.events != nil {
		event := client.event(domain.EventAddToCart, s.catalog.Currency())
		event.ProductID = line.ProductID
		event.VariantID = line.VariantID
		event.ItemName = product.Name
		event.Quantity = line.Quantity
		event.Value = s.catalog.Prices().LineTotal(line.UnitPrice, line.Quantity).InexactFloat64()
		s.events.Dispatch(event)
	}

	return cart, notices, nil
}

// UpdateQuantity sets a line's quantity, clamped to the stock recorded when
// the line was added. A quantity of 0 removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID, lineID string, quantity int) (*domain.Cart, []domain.Notice, error) {
	if quantity < 0 {
		return nil, nil, fmt.Errorf("%w: quantity must not be negative", domain.ErrInvalidRequest)
	}

	unlock := s.locks.lock(cartID)
	defer unlock()

	if quantity == 0 {
		cart, err := s.removeLine(ctx, cartID, lineID)
		return cart, nil, err
	}

	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, nil, err
	}

	idx := findLine(cart.Lines, lineID)
	if idx < 0 {
		return nil, nil, domain.ErrCartLineNotFound
	}

	clamped, notice := ClampQuantity(quantity, cart.Lines[idx].MaxQuantity)
	if clamped == 0 {
		return nil, []domain.Notice{*notice}, domain.ErrOutOfStock
	}
	cart.Lines[idx].Quantity = clamped

	if err := s.save(ctx, cart); err != nil {
		return nil, nil, err
	}

	var notices []domain.Notice
	if notice != nil {
		notices = append(notices, *notice)
	}
	return cart, notices, nil
}

// RemoveItem deletes a line from the cart
func (s *CartService) RemoveItem(ctx context.Context, cartID, lineID string) (*domain.Cart, error) {
	unlock := s.locks.lock(cartID)
	defer unlock()
	return s.removeLine(ctx, cartID, lineID)
}

func (s *CartService) removeLine(ctx context.Context, cartID, lineID string) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	idx := findLine(cart.Lines, lineID)
	if idx < 0 {
		return nil, domain.ErrCartLineNotFound
	}
	cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// newLine builds a cart line holding display strings only
func (s *CartService) newLine(product *domain.Product, variant *domain.Variant, lang domain.Language) domain.CartLine {
	line := domain.CartLine{
		ID:        product.ID,
		ProductID: product.ID,
		Name:      i18n.Pick(lang, product.Name, product.NameAr),
		UnitPrice: s.catalog.Prices().CurrentPrice(product.Pricing()),
		ImageURL:  product.ImageURL,
	}
	if variant == nil {
		return line
	}

	line.ID = product.ID + "-" + variant.ID
	line.VariantID = variant.ID
	line.UnitPrice = s.catalog.Prices().CurrentPrice(variant.Pricing())
	line.Weight = normalizeFacetLabel(variant.Weight.Label(lang))
	line.Beans = normalizeFacetLabel(variant.Beans.Label(lang))
	line.Additions = normalizeFacetLabel(variant.Additions.Label(lang))
	if variant.ImageURL != "" {
		line.ImageURL = variant.ImageURL
	}
	return line
}

// save recomputes totals and writes the cart back with a fresh TTL
func (s *CartService) save(ctx context.Context, cart *domain.Cart) error {
	subtotal := decimal.Zero
	count := 0
	for _, line := range cart.Lines {
		subtotal = subtotal.Add(s.catalog.Prices().LineTotal(line.UnitPrice, line.Quantity))
		count += line.Quantity
	}
	cart.Subtotal = subtotal.InexactFloat64()
	cart.ItemCount = count
	cart.UpdatedAt = s.now().UTC()

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, cartCacheKey(cart.ID), data, s.cartTTL)
}

func findLine(lines []domain.CartLine, id string) int {
	for i, line := range lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}

// cartCacheKey creates the cache key of a cart.
// Format: "cart:{id}"
func cartCacheKey(id string) string {
	return "cart:" + strings.TrimSpace(id)
}
