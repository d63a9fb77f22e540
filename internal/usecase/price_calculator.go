package usecase

import (
	"github.com/beanery/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// PriceView is the price block shown next to a product or variant
type PriceView struct {
	Current         float64  `json:"current"`
	Original        *float64 `json:"original,omitempty"`
	DiscountPercent int      `json:"discountPercent"`
}

// PriceCalculator derives displayed prices. Percentage discounts are 0-1
// fractions; values outside that range are clamped.
type PriceCalculator struct{}

// NewPriceCalculator creates a new price calculator
func NewPriceCalculator() *PriceCalculator {
	return &PriceCalculator{}
}

var hundred = decimal.NewFromInt(100)

// CurrentPrice returns the effective price after any active discount,
// rounded half away from zero to 2 decimal places. It never exceeds the
// base price.
func (c *PriceCalculator) CurrentPrice(p domain.Pricing) float64 {
	if !hasDiscount(p) {
		return p.Price
	}

	base := decimal.NewFromFloat(p.Price)
	discount := decimal.NewFromFloat(*p.Discount)

	var effective decimal.Decimal
	switch p.DiscountType {
	case domain.DiscountFixedAmount:
		effective = decimal.Max(decimal.Zero, base.Sub(discount))
	default:
		effective = base.Mul(decimal.NewFromInt(1).Sub(clampFraction(discount)))
	}

	effective = effective.Round(2)
	if effective.GreaterThan(base) {
		effective = base
	}
	return effective.InexactFloat64()
}

// OriginalPrice returns the pre-discount price when a discount is active
func (c *PriceCalculator) OriginalPrice(p domain.Pricing) *float64 {
	if !hasDiscount(p) {
		return nil
	}
	price := p.Price
	return &price
}

// DiscountPercentLabel returns the discount as a whole percentage in [0, 100].
// Fixed amounts are converted relative to the base price.
func (c *PriceCalculator) DiscountPercentLabel(p domain.Pricing) int {
	if !hasDiscount(p) {
		return 0
	}

	discount := decimal.NewFromFloat(*p.Discount)
	var percent decimal.Decimal
	switch p.DiscountType {
	case domain.DiscountFixedAmount:
		if p.Price <= 0 {
			return 0
		}
		percent = discount.Div(decimal.NewFromFloat(p.Price)).Mul(hundred)
	default:
		percent = clampFraction(discount).Mul(hundred)
	}

	percent = decimal.Min(hundred, decimal.Max(decimal.Zero, percent.Round(0)))
	return int(percent.IntPart())
}

// View builds the full price block
func (c *PriceCalculator) View(p domain.Pricing) PriceView {
	return PriceView{
		Current:         c.CurrentPrice(p),
		Original:        c.OriginalPrice(p),
		DiscountPercent: c.DiscountPercentLabel(p),
	}
}

// LineTotal multiplies a unit price by a quantity at cent precision
func (c *PriceCalculator) LineTotal(unitPrice float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

func hasDiscount(p domain.Pricing) bool {
	return p.Discount != nil && *p.Discount > 0
}

func clampFraction(d decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.NewFromInt(1), decimal.Max(decimal.Zero, d))
}
