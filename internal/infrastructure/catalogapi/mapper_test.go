package catalogapi

import (
	"testing"

	"github.com/beanery/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapProduct(t *testing.T) {
	data := []byte(`{
		"id": 42,
		"slug": "house-arabica",
		"name": " House Arabica ",
		"nameAr": "أرابيكا البيت",
		"price": 14.99,
		"discount": 0.2,
		"discountType": "percentage",
		"stock": "12",
		"images": ["https://cdn.example.com/a.jpg"],
		"variations": [
			{
				"id": "v1",
				"weight": {"name": "250g", "nameAr": "٢٥٠ جم"},
				"beans": {"displayName": "Arabica", "displayNameAr": "أرابيكا"},
				"additions": "Normal",
				"price": 14.99,
				"stockQuantity": 25
			},
			{
				"id": 7,
				"size": 500,
				"beans": "Arabica",
				"type": {"name": "Ground", "name_ar": "مطحون"},
				"price": "26.50",
				"discount": 3,
				"discountType": "fixed",
				"image": "https://cdn.example.com/v7.jpg"
			}
		]
	}`)

	product, err := MapProduct(data)
	require.NoError(t, err)

	assert.Equal(t, "42", product.ID)
	assert.Equal(t, "House Arabica", product.Name)
	assert.Equal(t, domain.DiscountPercentage, product.DiscountType)
	require.NotNil(t, product.Discount)
	assert.Equal(t, 0.2, *product.Discount)
	require.NotNil(t, product.StockQuantity)
	assert.Equal(t, 12, *product.StockQuantity)
	assert.Equal(t, "https://cdn.example.com/a.jpg", product.ImageURL)

	require.Len(t, product.Variations, 2)

	v1 := product.Variations[0]
	assert.Equal(t, "٢٥٠ جم", v1.Weight.Label(domain.LanguageArabic))
	assert.Equal(t, "أرابيكا", v1.Beans.Label(domain.LanguageArabic))
	assert.Equal(t, "Normal", v1.Additions.Label(domain.LanguageEnglish))
	assert.Equal(t, domain.DiscountPercentage, v1.DiscountType)

	v7 := product.Variations[1]
	assert.Equal(t, "7", v7.ID)
	assert.Equal(t, "500", v7.Weight.Label(domain.LanguageEnglish), "legacy size maps to weight")
	assert.Equal(t, "مطحون", v7.Additions.Label(domain.LanguageArabic), "legacy type maps to additions")
	assert.Equal(t, 26.5, v7.Price)
	assert.Equal(t, domain.DiscountFixedAmount, v7.DiscountType)
	assert.Nil(t, v7.StockQuantity)
	assert.Equal(t, "https://cdn.example.com/v7.jpg", v7.ImageURL)
}

func TestMapProduct_PrefersCurrentKeys(t *testing.T) {
	product, err := MapProduct([]byte(`{"id":"p1","variations":[
		{"id":"v1","weight":"1kg","size":"250g","additions":"Ground","type":"Normal"}
	]}`))
	require.NoError(t, err)

	v := product.Variations[0]
	assert.Equal(t, "1kg", v.Weight.Label(domain.LanguageEnglish))
	assert.Equal(t, "Ground", v.Additions.Label(domain.LanguageEnglish))
}

func TestMapProduct_Errors(t *testing.T) {
	_, err := MapProduct([]byte(`not json`))
	assert.Error(t, err)

	_, err = MapProduct([]byte(`{"id":"p1","variations":[{"weight":"250g"}]}`))
	assert.Error(t, err, "variation without id")

	_, err = MapProduct([]byte(`{"id":"p1","price":"cheap"}`))
	assert.Error(t, err)
}

func TestDecodeVariations(t *testing.T) {
	variations, err := DecodeVariations(nil)
	require.NoError(t, err)
	assert.Empty(t, variations)

	variations, err = DecodeVariations([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, variations)

	variations, err = DecodeVariations([]byte(`[{"id":"v1","size":"250g","type":"Normal","price":5}]`))
	require.NoError(t, err)
	require.Len(t, variations, 1)
	assert.Equal(t, "250g", variations[0].Weight.Label(domain.LanguageEnglish))
	assert.Equal(t, "Normal", variations[0].Additions.Label(domain.LanguageEnglish))
}

func TestMapDiscountType(t *testing.T) {
	tests := []struct {
		in   string
		want domain.DiscountType
	}{
		{"PERCENTAGE", domain.DiscountPercentage},
		{"percentage", domain.DiscountPercentage},
		{"", domain.DiscountPercentage},
		{"FIXED_AMOUNT", domain.DiscountFixedAmount},
		{"fixed-amount", domain.DiscountFixedAmount},
		{"Fixed amount", domain.DiscountFixedAmount},
		{"fixed", domain.DiscountFixedAmount},
		{"bogus", domain.DiscountPercentage},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MapDiscountType(tt.in))
		})
	}
}

func TestMapDraft(t *testing.T) {
	product, err := MapDraft([]byte(`{"name":"Decaf","price":9,"variations":[{"size":"250g","price":9}]}`))
	require.NoError(t, err)
	require.Len(t, product.Variations, 1)
	assert.Empty(t, product.Variations[0].ID)
	assert.Equal(t, "250g", product.Variations[0].Weight.Label(domain.LanguageEnglish))
}

func TestMapProduct_DropsOutOfScaleDiscounts(t *testing.T) {
	product, err := MapProduct([]byte(`{
		"id": "p7",
		"price": 20,
		"discount": 15,
		"discountType": "PERCENTAGE",
		"variations": [
			{"id": "v1", "size": "250g", "price": 20, "discount": "25", "discountType": "percentage"},
			{"id": "v2", "size": "500g", "price": 36, "discount": 0.25, "discountType": "percentage"},
			{"id": "v3", "size": "1kg", "price": 60, "discount": 15, "discountType": "fixed"},
			{"id": "v4", "size": "1kg", "price": 60, "discount": -0.1}
		]
	}`))
	require.NoError(t, err)

	assert.Nil(t, product.Discount, "whole percentage on the product")
	require.Len(t, product.Variations, 4)
	assert.Nil(t, product.Variations[0].Discount, "whole percentage as string")
	require.NotNil(t, product.Variations[1].Discount)
	assert.Equal(t, 0.25, *product.Variations[1].Discount)
	require.NotNil(t, product.Variations[2].Discount, "fixed amounts are not fractions")
	assert.Equal(t, 15.0, *product.Variations[2].Discount)
	assert.Nil(t, product.Variations[3].Discount, "negative fraction")
}

func TestMapDraft_KeepsDiscountForValidation(t *testing.T) {
	product, err := MapDraft([]byte(`{"name":"Bad","price":10,"discount":20,"discountType":"PERCENTAGE"}`))
	require.NoError(t, err)
	require.NotNil(t, product.Discount)
	assert.Equal(t, 20.0, *product.Discount)
}

func TestSanitizeDiscount(t *testing.T) {
	tests := []struct {
		name     string
		discount *float64
		kind     domain.DiscountType
		want     *float64
	}{
		{"nil", nil, domain.DiscountPercentage, nil},
		{"zero", floatPtr(0), domain.DiscountPercentage, floatPtr(0)},
		{"full", floatPtr(1), domain.DiscountPercentage, floatPtr(1)},
		{"whole percentage", floatPtr(15), domain.DiscountPercentage, nil},
		{"fixed amount", floatPtr(15), domain.DiscountFixedAmount, floatPtr(15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeDiscount("product p1", tt.discount, tt.kind))
		})
	}
}

func floatPtr(f float64) *float64 { return &f }
