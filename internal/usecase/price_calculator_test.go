package usecase

import (
	"testing"

	"github.com/beanery/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCurrentPrice(t *testing.T) {
	c := NewPriceCalculator()

	tests := []struct {
		name    string
		pricing domain.Pricing
		want    float64
	}{
		{"no discount returns price exactly", domain.Pricing{Price: 14.99}, 14.99},
		{"zero discount returns price exactly", domain.Pricing{Price: 14.99, Discount: floatPtr(0), DiscountType: domain.DiscountPercentage}, 14.99},
		{"percentage fraction", domain.Pricing{Price: 20, Discount: floatPtr(0.25), DiscountType: domain.DiscountPercentage}, 15},
		{"percentage rounds to cents", domain.Pricing{Price: 14.99, Discount: floatPtr(0.1), DiscountType: domain.DiscountPercentage}, 13.49},
		{"sub-cent result rounds to the nearest cent", domain.Pricing{Price: 14.99, Discount: floatPtr(0.15), DiscountType: domain.DiscountPercentage}, 12.74},
		{"half cent rounds away from zero", domain.Pricing{Price: 0.5, Discount: floatPtr(0.01), DiscountType: domain.DiscountPercentage}, 0.5},
		{"missing type means percentage", domain.Pricing{Price: 10, Discount: floatPtr(0.5)}, 5},
		{"percentage above one is clamped", domain.Pricing{Price: 10, Discount: floatPtr(15), DiscountType: domain.DiscountPercentage}, 0},
		{"fixed amount", domain.Pricing{Price: 14.99, Discount: floatPtr(2), DiscountType: domain.DiscountFixedAmount}, 12.99},
		{"fixed amount floors at zero", domain.Pricing{Price: 5, Discount: floatPtr(8), DiscountType: domain.DiscountFixedAmount}, 0},
		{"negative discount is ignored", domain.Pricing{Price: 5, Discount: floatPtr(-1), DiscountType: domain.DiscountFixedAmount}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CurrentPrice(tt.pricing))
		})
	}
}

func TestPercentageDiscountBounds(t *testing.T) {
	c := NewPriceCalculator()
	prices := []float64{0, 0.5, 9.99, 14.99, 120, 1999.95}
	fractions := []float64{0, 0.01, 0.125, 0.333, 0.5, 0.99, 1}

	for _, price := range prices {
		for _, fraction := range fractions {
			got := c.CurrentPrice(domain.Pricing{Price: price, Discount: floatPtr(fraction), DiscountType: domain.DiscountPercentage})
			assert.LessOrEqual(t, got, price, "price %v fraction %v", price, fraction)
			assert.GreaterOrEqual(t, got, 0.0, "price %v fraction %v", price, fraction)
			assert.InDelta(t, price*(1-fraction), got, 0.006, "price %v fraction %v", price, fraction)
		}
	}
}

func TestFixedDiscountFloor(t *testing.T) {
	c := NewPriceCalculator()
	for _, discount := range []float64{0.01, 1, 14.99, 15, 100} {
		got := c.CurrentPrice(domain.Pricing{Price: 14.99, Discount: floatPtr(discount), DiscountType: domain.DiscountFixedAmount})
		assert.GreaterOrEqual(t, got, 0.0)
		if discount < 14.99 {
			assert.InDelta(t, 14.99-discount, got, 0.001)
		} else {
			assert.Equal(t, 0.0, got)
		}
	}
}

func TestOriginalPrice(t *testing.T) {
	c := NewPriceCalculator()

	assert.Nil(t, c.OriginalPrice(domain.Pricing{Price: 10}))
	assert.Nil(t, c.OriginalPrice(domain.Pricing{Price: 10, Discount: floatPtr(0)}))

	original := c.OriginalPrice(domain.Pricing{Price: 10, Discount: floatPtr(0.2), DiscountType: domain.DiscountPercentage})
	if assert.NotNil(t, original) {
		assert.Equal(t, 10.0, *original)
	}
}

func TestDiscountPercentLabel(t *testing.T) {
	c := NewPriceCalculator()

	tests := []struct {
		name    string
		pricing domain.Pricing
		want    int
	}{
		{"no discount", domain.Pricing{Price: 10}, 0},
		{"percentage", domain.Pricing{Price: 10, Discount: floatPtr(0.155), DiscountType: domain.DiscountPercentage}, 16},
		{"fixed converted to percent", domain.Pricing{Price: 20, Discount: floatPtr(5), DiscountType: domain.DiscountFixedAmount}, 25},
		{"fixed rounds", domain.Pricing{Price: 14.99, Discount: floatPtr(2), DiscountType: domain.DiscountFixedAmount}, 13},
		{"fixed above price clamps to 100", domain.Pricing{Price: 5, Discount: floatPtr(8), DiscountType: domain.DiscountFixedAmount}, 100},
		{"fixed on free product", domain.Pricing{Price: 0, Discount: floatPtr(2), DiscountType: domain.DiscountFixedAmount}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.DiscountPercentLabel(tt.pricing))
		})
	}
}

func TestLineTotal(t *testing.T) {
	c := NewPriceCalculator()
	assert.Equal(t, "44.97", c.LineTotal(14.99, 3).StringFixed(2))
	assert.Equal(t, "0.00", c.LineTotal(14.99, 0).StringFixed(2))
}
