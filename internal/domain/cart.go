package domain

import "time"

// CartLine stores display strings only; it never references catalog variants
type CartLine struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	VariantID string  `json:"variantId,omitempty"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Weight    string  `json:"weight,omitempty"`
	Beans     string  `json:"beans,omitempty"`
	Additions string  `json:"additions,omitempty"`
	// MaxQuantity is the stock seen when the line was last written
	MaxQuantity int `json:"maxQuantity"`
}

// Cart is a session cart held in the cache
type Cart struct {
	ID        string     `json:"id"`
	Lines     []CartLine `json:"lines"`
	Subtotal  float64    `json:"subtotal"`
	ItemCount int        `json:"itemCount"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// AddToCartRequest describes a purchase intent from the product page
type AddToCartRequest struct {
	ProductID string    `json:"productId" binding:"required"`
	Selection Selection `json:"selection"`
	Quantity  int       `json:"quantity"`
}
