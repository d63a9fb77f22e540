package usecase

import "github.com/beanery/storefront/internal/domain"

// StockView describes availability of the resolved variant or product
type StockView struct {
	InStock   bool `json:"inStock"`
	Available int  `json:"available"`
}

// IsOutOfStock reports whether a stock quantity forbids any purchase.
// Missing stock counts as out of stock.
func IsOutOfStock(stock *int) bool {
	return stock == nil || *stock <= 0
}

// AvailableStock returns the stock that bounds a purchase: the resolved
// variant's when there is one, otherwise the product's own.
func AvailableStock(variant *domain.Variant, product *domain.Product) *int {
	if variant != nil {
		return variant.StockQuantity
	}
	if product != nil {
		return product.StockQuantity
	}
	return nil
}

// ClampQuantity bounds a requested quantity to [1, available]. A warning
// notice is returned when the request had to be lowered, and an error
// notice with quantity 0 when nothing is available.
func ClampQuantity(requested, available int) (int, *domain.Notice) {
	if available <= 0 {
		return 0, &domain.Notice{Level: domain.NoticeError, Code: domain.NoticeOutOfStock}
	}
	if requested < 1 {
		requested = 1
	}
	if requested > available {
		return available, &domain.Notice{
			Level: domain.NoticeWarning,
			Code:  domain.NoticeInsufficientStock,
			Count: available,
		}
	}
	return requested, nil
}

// stockView builds the availability block for a stock quantity
func stockView(stock *int) StockView {
	if IsOutOfStock(stock) {
		return StockView{}
	}
	return StockView{InStock: true, Available: *stock}
}
