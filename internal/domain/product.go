package domain

import "time"

// DiscountType tells how a discount value is applied to a base price
type DiscountType string

const (
	// DiscountPercentage discounts are stored as a 0-1 fraction
	DiscountPercentage DiscountType = "PERCENTAGE"
	// DiscountFixedAmount discounts are subtracted from the base price
	DiscountFixedAmount DiscountType = "FIXED_AMOUNT"
)

// Pricing is the price-bearing part of a product or variant
type Pricing struct {
	Price        float64
	Discount     *float64
	DiscountType DiscountType
}

// Variant is one purchasable SKU of a product
type Variant struct {
	ID            string       `json:"id"`
	Weight        FacetValue   `json:"weight"`
	Beans         FacetValue   `json:"beans"`
	Additions     FacetValue   `json:"additions"`
	Price         float64      `json:"price"`
	Discount      *float64     `json:"discount,omitempty"`
	DiscountType  DiscountType `json:"discountType,omitempty"`
	StockQuantity *int         `json:"stockQuantity,omitempty"`
	ImageURL      string       `json:"imageUrl,omitempty"`
	Synthetic     bool         `json:"synthetic,omitempty"`
}

// Facet returns the value of the given facet
func (v Variant) Facet(f Facet) FacetValue {
	switch f {
	case FacetWeight:
		return v.Weight
	case FacetBeans:
		return v.Beans
	case FacetAdditions:
		return v.Additions
	}
	return FacetValue{}
}

// Pricing returns the variant's price fields
func (v Variant) Pricing() Pricing {
	return Pricing{Price: v.Price, Discount: v.Discount, DiscountType: v.DiscountType}
}

// Product owns zero or more variants and carries its own fallback pricing
type Product struct {
	ID            string       `json:"id"`
	Slug          string       `json:"slug"`
	Name          string       `json:"name"`
	NameAr        string       `json:"nameAr,omitempty"`
	Description   string       `json:"description,omitempty"`
	DescriptionAr string       `json:"descriptionAr,omitempty"`
	Price         float64      `json:"price"`
	Discount      *float64     `json:"discount,omitempty"`
	DiscountType  DiscountType `json:"discountType,omitempty"`
	StockQuantity *int         `json:"stockQuantity,omitempty"`
	ImageURL      string       `json:"imageUrl,omitempty"`
	Variations    []Variant    `json:"variations"`
	UpdatedAt     time.Time    `json:"updatedAt,omitzero"`
}

// Pricing returns the product's own price fields
func (p Product) Pricing() Pricing {
	return Pricing{Price: p.Price, Discount: p.Discount, DiscountType: p.DiscountType}
}

// Selection holds the chosen value for each facet. Empty fields are unselected.
type Selection struct {
	Weight    string `json:"weight" form:"weight"`
	Beans     string `json:"beans" form:"beans"`
	Additions string `json:"additions" form:"additions"`
}

// Get returns the selected value of a facet
func (s Selection) Get(f Facet) string {
	switch f {
	case FacetWeight:
		return s.Weight
	case FacetBeans:
		return s.Beans
	case FacetAdditions:
		return s.Additions
	}
	return ""
}

// With returns a copy of the selection with one facet replaced
func (s Selection) With(f Facet, value string) Selection {
	switch f {
	case FacetWeight:
		s.Weight = value
	case FacetBeans:
		s.Beans = value
	case FacetAdditions:
		s.Additions = value
	}
	return s
}

// IsEmpty reports whether no facet is selected
func (s Selection) IsEmpty() bool {
	return s.Weight == "" && s.Beans == "" && s.Additions == ""
}
