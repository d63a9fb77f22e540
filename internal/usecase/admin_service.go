package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/beanery/storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// AdminService handles back-office catalog writes
type AdminService struct {
	writer  domain.ProductWriter
	catalog *CatalogService
	now     func() time.Time
}

// NewAdminService creates a new admin service. A nil writer makes the
// catalog read-only.
func NewAdminService(writer domain.ProductWriter, catalog *CatalogService) *AdminService {
	return &AdminService{
		writer:  writer,
		catalog: catalog,
		now:     time.Now,
	}
}

// ListProducts returns every product in the writable catalog
func (s *AdminService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if s.writer == nil {
		return nil, domain.ErrCatalogReadOnly
	}
	return s.writer.ListProducts(ctx)
}

// SaveProduct validates and stores a product, then drops its cached copy
func (s *AdminService) SaveProduct(ctx context.Context, id string, product domain.Product) (*domain.Product, error) {
	if s.writer == nil {
		return nil, domain.ErrCatalogReadOnly
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}
	product.ID = id

	if product.Slug == "" {
		product.Slug = slug.Make(product.Name)
	} else {
		product.Slug = slug.Make(product.Slug)
	}
	for i := range product.Variations {
		if strings.TrimSpace(product.Variations[i].ID) == "" {
			product.Variations[i].ID = uuid.NewString()
		}
	}

	if err := ValidateProduct(product); err != nil {
		return nil, err
	}

	product.UpdatedAt = s.now().UTC()
	if err := s.writer.SaveProduct(ctx, &product); err != nil {
		return nil, err
	}

	if err := s.catalog.Invalidate(ctx, id); err != nil {
		log.Printf("[ADMIN] Cache invalidation failed for product %q: %v", id, err)
	}
	return &product, nil
}

// ValidateProduct enforces catalog invariants at the data-entry boundary:
// non-negative prices and stock, percentage discounts as 0-1 fractions and
// one variant per facet combination.
func ValidateProduct(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" && strings.TrimSpace(p.NameAr) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}
	if err := validatePricing("product", p.Pricing(), p.StockQuantity); err != nil {
		return err
	}

	seen := make(map[string]string)
	for _, v := range p.Variations {
		if err := validatePricing("variant "+v.ID, v.Pricing(), v.StockQuantity); err != nil {
			return err
		}

		key := variantKey(v)
		if other, ok := seen[key]; ok {
			return fmt.Errorf("%w: variants %s and %s", domain.ErrDuplicateVariant, other, v.ID)
		}
		seen[key] = v.ID
	}
	return nil
}

func validatePricing(what string, p domain.Pricing, stock *int) error {
	if p.Price < 0 {
		return fmt.Errorf("%w: %s price must not be negative", domain.ErrInvalidRequest, what)
	}
	if stock != nil && *stock < 0 {
		return fmt.Errorf("%w: %s stock must not be negative", domain.ErrInvalidRequest, what)
	}
	if p.Discount == nil {
		return nil
	}

	d := *p.Discount
	switch p.DiscountType {
	case domain.DiscountPercentage, "":
		if d < 0 || d > 1 {
			return fmt.Errorf("%w: %s percentage discount %v must be a fraction between 0 and 1", domain.ErrInvalidDiscount, what, d)
		}
	case domain.DiscountFixedAmount:
		if d < 0 {
			return fmt.Errorf("%w: %s fixed discount must not be negative", domain.ErrInvalidDiscount, what)
		}
	default:
		return fmt.Errorf("%w: %s has unknown discount type %q", domain.ErrInvalidDiscount, what, p.DiscountType)
	}
	return nil
}

// variantKey is the folded weight/beans/additions triple of a variant
func variantKey(v domain.Variant) string {
	parts := make([]string, 0, len(domain.Facets))
	for _, f := range domain.Facets {
		parts = append(parts, foldKey(v.Facet(f).Label(domain.LanguageEnglish)))
	}
	return strings.Join(parts, "|")
}
