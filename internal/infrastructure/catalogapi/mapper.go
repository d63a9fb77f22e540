package catalogapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/beanery/storefront/internal/domain"
)

// flexNumber decodes a JSON number or a numeric string
type flexNumber struct {
	value *float64
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", s, err)
		}
		n.value = &f
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	n.value = &f
	return nil
}

func (n flexNumber) floatValue() float64 {
	if n.value == nil {
		return 0
	}
	return *n.value
}

func (n flexNumber) intValue() *int {
	if n.value == nil {
		return nil
	}
	i := int(*n.value)
	return &i
}

// flexID decodes a string or numeric identifier
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(strings.TrimSpace(s))
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*id = flexID(number.String())
	return nil
}

// rawVariant is a variation entry as stored by the catalog, legacy keys included
type rawVariant struct {
	ID            flexID            `json:"id"`
	Weight        domain.FacetValue `json:"weight"`
	Size          domain.FacetValue `json:"size"`
	Beans         domain.FacetValue `json:"beans"`
	Additions     domain.FacetValue `json:"additions"`
	Type          domain.FacetValue `json:"type"`
	Price         flexNumber        `json:"price"`
	Discount      flexNumber        `json:"discount"`
	DiscountType  string            `json:"discountType"`
	StockQuantity flexNumber        `json:"stockQuantity"`
	Stock         flexNumber        `json:"stock"`
	ImageURL      string            `json:"imageUrl"`
	Image         string            `json:"image"`
}

// rawProduct is a product document as served by the catalog API
type rawProduct struct {
	ID            flexID       `json:"id"`
	Slug          string       `json:"slug"`
	Name          string       `json:"name"`
	NameAr        string       `json:"nameAr"`
	Description   string       `json:"description"`
	DescriptionAr string       `json:"descriptionAr"`
	Price         flexNumber   `json:"price"`
	Discount      flexNumber   `json:"discount"`
	DiscountType  string       `json:"discountType"`
	StockQuantity flexNumber   `json:"stockQuantity"`
	Stock         flexNumber   `json:"stock"`
	ImageURL      string       `json:"imageUrl"`
	Images        []string     `json:"images"`
	Variations    []rawVariant `json:"variations"`
}

// MapProduct decodes a catalog product document into the domain model. It is
// the only place legacy keys are understood: size becomes weight and type
// becomes additions. Documents wrapped in {"data": ...} or {"product": ...}
// are unwrapped first. Every variation must carry an id, and percentage
// discounts outside 0-1 are dropped.
func MapProduct(data []byte) (*domain.Product, error) {
	return mapProduct(data, true)
}

// MapDraft decodes a back-office product document. Variations may omit their
// id; the caller assigns one before saving. Discounts are kept as sent so
// validation can reject them.
func MapDraft(data []byte) (*domain.Product, error) {
	return mapProduct(data, false)
}

func mapProduct(data []byte, strict bool) (*domain.Product, error) {
	data = unwrap(data)

	var raw rawProduct
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}

	product := &domain.Product{
		ID:            string(raw.ID),
		Slug:          strings.TrimSpace(raw.Slug),
		Name:          strings.TrimSpace(raw.Name),
		NameAr:        strings.TrimSpace(raw.NameAr),
		Description:   raw.Description,
		DescriptionAr: raw.DescriptionAr,
		Price:         raw.Price.floatValue(),
		Discount:      raw.Discount.value,
		DiscountType:  MapDiscountType(raw.DiscountType),
		StockQuantity: firstStock(raw.StockQuantity, raw.Stock),
		ImageURL:      raw.ImageURL,
	}
	if product.ImageURL == "" && len(raw.Images) > 0 {
		product.ImageURL = raw.Images[0]
	}

	if strict {
		product.Discount = SanitizeDiscount("product "+product.ID, product.Discount, product.DiscountType)
	}

	variations, err := mapVariations(raw.Variations, strict)
	if err != nil {
		return nil, err
	}
	product.Variations = variations
	return product, nil
}

// DecodeVariations decodes a stored variations array
func DecodeVariations(data []byte) ([]domain.Variant, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []domain.Variant{}, nil
	}

	var raw []rawVariant
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode variations: %w", err)
	}
	return mapVariations(raw, true)
}

// mapVariations folds legacy keys and normalizes pricing of every entry
func mapVariations(raw []rawVariant, strict bool) ([]domain.Variant, error) {
	variations := make([]domain.Variant, 0, len(raw))
	for i, r := range raw {
		id := string(r.ID)
		if id == "" && strict {
			return nil, fmt.Errorf("variation %d has no id", i)
		}

		v := domain.Variant{
			ID:            id,
			Weight:        r.Weight,
			Beans:         r.Beans,
			Additions:     r.Additions,
			Price:         r.Price.floatValue(),
			Discount:      r.Discount.value,
			DiscountType:  MapDiscountType(r.DiscountType),
			StockQuantity: firstStock(r.StockQuantity, r.Stock),
			ImageURL:      r.ImageURL,
		}
		if v.Weight.IsZero() {
			v.Weight = r.Size
		}
		if v.Additions.IsZero() {
			v.Additions = r.Type
		}
		if v.ImageURL == "" {
			v.ImageURL = r.Image
		}
		if strict {
			v.Discount = SanitizeDiscount("variant "+id, v.Discount, v.DiscountType)
		}
		variations = append(variations, v)
	}
	return variations, nil
}

// MapDiscountType normalizes the discount type spellings seen in the catalog.
// Anything unrecognized is treated as a percentage.
func MapDiscountType(s string) domain.DiscountType {
	switch strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s))) {
	case "FIXED_AMOUNT", "FIXED", "AMOUNT":
		return domain.DiscountFixedAmount
	default:
		return domain.DiscountPercentage
	}
}

// SanitizeDiscount drops a percentage discount outside the 0-1 fraction
// scale. Records on the old 0-100 scale would otherwise price at zero.
func SanitizeDiscount(what string, discount *float64, t domain.DiscountType) *float64 {
	if discount == nil || t != domain.DiscountPercentage {
		return discount
	}
	if *discount < 0 || *discount > 1 {
		log.Printf("[CATALOG] Dropping %s percentage discount %v outside 0-1", what, *discount)
		return nil
	}
	return discount
}

func firstStock(values ...flexNumber) *int {
	for _, v := range values {
		if i := v.intValue(); i != nil {
			return i
		}
	}
	return nil
}

// unwrap returns the inner document of a {"data": ...} or {"product": ...} envelope
func unwrap(data []byte) []byte {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return data
	}
	if _, ok := envelope["id"]; ok {
		return data
	}
	for _, key := range []string{"data", "product"} {
		if inner, ok := envelope[key]; ok && len(bytes.TrimSpace(inner)) > 0 && bytes.TrimSpace(inner)[0] == '{' {
			return unwrap(inner)
		}
	}
	return data
}
