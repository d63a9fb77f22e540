package i18n

import "github.com/beanery/storefront/internal/domain"

type message struct {
	en string
	ar string
}

var messages = map[domain.NoticeCode]message{
	domain.NoticeSelectVariation: {
		en: "Please select a variation",
		ar: "يرجى اختيار النوع",
	},
	domain.NoticeOutOfStock: {
		en: "Out of stock",
		ar: "غير متوفر في المخزون",
	},
	domain.NoticeInsufficientStock: {
		en: "Only %d left in stock",
		ar: "متبقي %d فقط في المخزون",
	},
	domain.NoticeAddedToCart: {
		en: "Added to cart",
		ar: "تمت الإضافة إلى السلة",
	},
	domain.NoticeCatalogUnavailable: {
		en: "This product is currently unavailable",
		ar: "هذا المنتج غير متاح حالياً",
	},
}
