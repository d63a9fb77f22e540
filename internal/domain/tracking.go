package domain

import "time"

// ConversionEventName is a server-side analytics event
type ConversionEventName string

const (
	EventViewItem  ConversionEventName = "view_item"
	EventAddToCart ConversionEventName = "add_to_cart"
)

// ConversionEvent is forwarded to the configured conversion APIs
type ConversionEvent struct {
	ID        string
	Name      ConversionEventName
	ClientID  string
	ClientIP  string
	UserAgent string
	PageURL   string
	Currency  string
	Value     float64
	ProductID string
	VariantID string
	ItemName  string
	Quantity  int
	Time      time.Time
}
