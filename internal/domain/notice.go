package domain

// NoticeLevel is the severity of a user-facing message
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// NoticeCode identifies a message in the translation catalog
type NoticeCode string

const (
	NoticeSelectVariation    NoticeCode = "select_variation"
	NoticeOutOfStock         NoticeCode = "out_of_stock"
	NoticeInsufficientStock  NoticeCode = "insufficient_stock"
	NoticeAddedToCart        NoticeCode = "added_to_cart"
	NoticeCatalogUnavailable NoticeCode = "catalog_unavailable"
)

// Notice is a toast-style message. Message is filled in by the delivery
// layer once the display language is known.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Code    NoticeCode  `json:"code"`
	Count   int         `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}
