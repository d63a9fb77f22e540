package tracking

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beanery/storefront/internal/domain"
)

const defaultMetaEndpoint = "https://graph.facebook.com/v19.0"

// MetaConfig holds Conversions API credentials
type MetaConfig struct {
	PixelID       string
	AccessToken   string
	TestEventCode string
	Endpoint      string
	Timeout       time.Duration
}

// Meta sends events through the Meta Conversions API
type Meta struct {
	config MetaConfig
	client *http.Client
}

// NewMeta creates a Conversions API tracker
func NewMeta(cfg MetaConfig) *Meta {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultMetaEndpoint
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &Meta{config: cfg, client: newHTTPClient(cfg.Timeout)}
}

// metaEventNames maps storefront events to Meta standard events
var metaEventNames = map[domain.ConversionEventName]string{
	domain.EventViewItem:  "ViewContent",
	domain.EventAddToCart: "AddToCart",
}

type metaPayload struct {
	Data          []metaEvent `json:"data"`
	TestEventCode string      `json:"test_event_code,omitempty"`
}

type metaEvent struct {
	EventName      string         `json:"event_name"`
	EventTime      int64          `json:"event_time"`
	EventID        string         `json:"event_id"`
	ActionSource   string         `json:"action_source"`
	EventSourceURL string         `json:"event_source_url,omitempty"`
	UserData       metaUserData   `json:"user_data"`
	CustomData     metaCustomData `json:"custom_data"`
}

type metaUserData struct {
	ClientIPAddress string   `json:"client_ip_address,omitempty"`
	ClientUserAgent string   `json:"client_user_agent,omitempty"`
	ExternalID      []string `json:"external_id,omitempty"`
}

type metaCustomData struct {
	Currency    string        `json:"currency,omitempty"`
	Value       float64       `json:"value"`
	ContentIDs  []string      `json:"content_ids"`
	ContentType string        `json:"content_type"`
	ContentName string        `json:"content_name,omitempty"`
	Contents    []metaContent `json:"contents"`
}

type metaContent struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// Track posts one event
func (m *Meta) Track(ctx context.Context, event domain.ConversionEvent) error {
	endpoint := fmt.Sprintf("%s/%s/events?%s", m.config.Endpoint, url.PathEscape(m.config.PixelID),
		url.Values{"access_token": {m.config.AccessToken}}.Encode())
	return postJSON(ctx, m.client, endpoint, m.payload(event))
}

func (m *Meta) payload(event domain.ConversionEvent) metaPayload {
	name, ok := metaEventNames[event.Name]
	if !ok {
		name = string(event.Name)
	}

	contentID := event.ProductID
	if event.VariantID != "" {
		contentID = event.ProductID + "-" + event.VariantID
	}

	e := metaEvent{
		EventName:      name,
		EventTime:      event.Time.Unix(),
		EventID:        event.ID,
		ActionSource:   "website",
		EventSourceURL: event.PageURL,
		UserData: metaUserData{
			ClientIPAddress: event.ClientIP,
			ClientUserAgent: event.UserAgent,
		},
		CustomData: metaCustomData{
			Currency:    event.Currency,
			Value:       event.Value,
			ContentIDs:  []string{contentID},
			ContentType: "product",
			ContentName: event.ItemName,
			Contents:    []metaContent{{ID: contentID, Quantity: event.Quantity}},
		},
	}
	if event.ClientID != "" {
		e.UserData.ExternalID = []string{hashIdentifier(event.ClientID)}
	}

	return metaPayload{Data: []metaEvent{e}, TestEventCode: m.config.TestEventCode}
}

// hashIdentifier returns the lowercase SHA-256 hex digest Meta expects for identifiers
func hashIdentifier(s string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(s))))
	return hex.EncodeToString(sum[:])
}
