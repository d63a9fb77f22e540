package tracking

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beanery/storefront/internal/domain"
	"github.com/google/uuid"
)

const defaultGA4Endpoint = "https://www.google-analytics.com/mp/collect"

// GA4Config holds Measurement Protocol credentials
type GA4Config struct {
	MeasurementID string
	APISecret     string
	Endpoint      string
	Timeout       time.Duration
}

// GA4 sends events through the GA4 Measurement Protocol
type GA4 struct {
	config GA4Config
	client *http.Client
}

// NewGA4 creates a Measurement Protocol tracker
func NewGA4(cfg GA4Config) *GA4 {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultGA4Endpoint
	}
	return &GA4{config: cfg, client: newHTTPClient(cfg.Timeout)}
}

type ga4Payload struct {
	ClientID        string     `json:"client_id"`
	TimestampMicros int64      `json:"timestamp_micros,omitempty"`
	Events          []ga4Event `json:"events"`
}

type ga4Event struct {
	Name   string    `json:"name"`
	Params ga4Params `json:"params"`
}

type ga4Params struct {
	Currency string    `json:"currency,omitempty"`
	Value    float64   `json:"value"`
	Items    []ga4Item `json:"items"`
}

type ga4Item struct {
	ItemID      string `json:"item_id"`
	ItemName    string `json:"item_name,omitempty"`
	ItemVariant string `json:"item_variant,omitempty"`
	Quantity    int    `json:"quantity"`
}

// Track posts one event
func (g *GA4) Track(ctx context.Context, event domain.ConversionEvent) error {
	return postJSON(ctx, g.client, g.collectURL(), g.payload(event))
}

func (g *GA4) collectURL() string {
	params := url.Values{}
	params.Set("measurement_id", g.config.MeasurementID)
	params.Set("api_secret", g.config.APISecret)
	return g.config.Endpoint + "?" + params.Encode()
}

func (g *GA4) payload(event domain.ConversionEvent) ga4Payload {
	p := ga4Payload{
		ClientID: ga4ClientID(event),
		Events: []ga4Event{{
			Name: string(event.Name),
			Params: ga4Params{
				Currency: event.Currency,
				Value:    event.Value,
				Items: []ga4Item{{
					ItemID:      event.ProductID,
					ItemName:    event.ItemName,
					ItemVariant: event.VariantID,
					Quantity:    event.Quantity,
				}},
			},
		}},
	}
	if !event.Time.IsZero() {
		p.TimestampMicros = event.Time.UnixMicro()
	}
	return p
}

// ga4ClientID returns the browser's client id, trimmed of the _ga cookie
// prefix. Without one it derives a stable id from the client IP and user
// agent, and only as a last resort uses the event id.
func ga4ClientID(event domain.ConversionEvent) string {
	if id := strings.TrimSpace(event.ClientID); id != "" {
		if parts := strings.Split(id, "."); len(parts) == 4 && strings.HasPrefix(parts[0], "GA") {
			return parts[2] + "." + parts[3]
		}
		return id
	}

	ip := strings.TrimSpace(event.ClientIP)
	agent := strings.TrimSpace(event.UserAgent)
	if ip == "" && agent == "" {
		return event.ID
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(ip+"|"+agent)).String()
}
