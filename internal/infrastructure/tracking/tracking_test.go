package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beanery/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() domain.ConversionEvent {
	return domain.ConversionEvent{
		ID:        "evt-1",
		Name:      domain.EventAddToCart,
		ClientID:  "Client-42",
		ClientIP:  "203.0.113.7",
		UserAgent: "Mozilla/5.0",
		PageURL:   "https://shop.example.com/products/p1",
		Currency:  "SAR",
		Value:     29.98,
		ProductID: "p1",
		VariantID: "v1",
		ItemName:  "House Arabica",
		Quantity:  2,
		Time:      time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestGA4Track(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "G-TEST", r.URL.Query().Get("measurement_id"))
		assert.Equal(t, "secret", r.URL.Query().Get("api_secret"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	ga4 := NewGA4(GA4Config{MeasurementID: "G-TEST", APISecret: "secret", Endpoint: server.URL})
	require.NoError(t, ga4.Track(context.Background(), sampleEvent()))

	assert.Equal(t, "Client-42", got["client_id"])
	events := got["events"].([]any)
	require.Len(t, events, 1)
	event := events[0].(map[string]any)
	assert.Equal(t, "add_to_cart", event["name"])

	params := event["params"].(map[string]any)
	assert.Equal(t, "SAR", params["currency"])
	assert.Equal(t, 29.98, params["value"])
	item := params["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "p1", item["item_id"])
	assert.Equal(t, "v1", item["item_variant"])
	assert.Equal(t, float64(2), item["quantity"])
}

func TestGA4ClientID(t *testing.T) {
	ga4 := NewGA4(GA4Config{})
	assert.Equal(t, defaultGA4Endpoint, ga4.config.Endpoint)

	t.Run("strips the _ga cookie prefix", func(t *testing.T) {
		event := sampleEvent()
		event.ClientID = "GA1.1.1234567890.1712345678"
		assert.Equal(t, "1234567890.1712345678", ga4.payload(event).ClientID)
	})

	t.Run("anonymous client is stable across events", func(t *testing.T) {
		first := sampleEvent()
		first.ClientID = ""
		second := first
		second.ID = "evt-2"
		second.Name = domain.EventViewItem

		id := ga4.payload(first).ClientID
		assert.NotEmpty(t, id)
		assert.NotEqual(t, first.ID, id)
		assert.Equal(t, id, ga4.payload(second).ClientID)
	})

	t.Run("different clients get different ids", func(t *testing.T) {
		first := sampleEvent()
		first.ClientID = ""
		other := first
		other.ClientIP = "198.51.100.4"

		assert.NotEqual(t, ga4.payload(first).ClientID, ga4.payload(other).ClientID)
	})

	t.Run("event id is the last resort", func(t *testing.T) {
		event := sampleEvent()
		event.ClientID = ""
		event.ClientIP = ""
		event.UserAgent = ""
		assert.Equal(t, "evt-1", ga4.payload(event).ClientID)
	})
}

func TestMetaTrack(t *testing.T) {
	var got metaPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/px-1/events", r.URL.Path)
		assert.Equal(t, "token", r.URL.Query().Get("access_token"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"events_received":1}`))
	}))
	defer server.Close()

	meta := NewMeta(MetaConfig{PixelID: "px-1", AccessToken: "token", TestEventCode: "TEST1", Endpoint: server.URL + "/"})
	require.NoError(t, meta.Track(context.Background(), sampleEvent()))

	require.Len(t, got.Data, 1)
	e := got.Data[0]
	assert.Equal(t, "AddToCart", e.EventName)
	assert.Equal(t, "evt-1", e.EventID)
	assert.Equal(t, "website", e.ActionSource)
	assert.Equal(t, sampleEvent().Time.Unix(), e.EventTime)
	assert.Equal(t, "203.0.113.7", e.UserData.ClientIPAddress)
	assert.Equal(t, []string{hashIdentifier("client-42")}, e.UserData.ExternalID)
	assert.Equal(t, []string{"p1-v1"}, e.CustomData.ContentIDs)
	assert.Equal(t, 2, e.CustomData.Contents[0].Quantity)
	assert.Equal(t, "TEST1", got.TestEventCode)
}

func TestMetaEventNames(t *testing.T) {
	meta := NewMeta(MetaConfig{})
	event := sampleEvent()
	event.Name = domain.EventViewItem
	event.VariantID = ""

	p := meta.payload(event)
	assert.Equal(t, "ViewContent", p.Data[0].EventName)
	assert.Equal(t, []string{"p1"}, p.Data[0].CustomData.ContentIDs)
}

func TestHashIdentifier(t *testing.T) {
	assert.Equal(t, hashIdentifier("abc"), hashIdentifier("  ABC "))
	assert.Len(t, hashIdentifier("abc"), 64)
}

func TestTrackUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid"}`))
	}))
	defer server.Close()

	ga4 := NewGA4(GA4Config{Endpoint: server.URL})
	err := ga4.Track(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	assert.Contains(t, err.Error(), "status 400")
}

type stubTracker struct {
	err   error
	calls int
}

func (s *stubTracker) Track(ctx context.Context, event domain.ConversionEvent) error {
	s.calls++
	return s.err
}

func TestMulti(t *testing.T) {
	ok := &stubTracker{}
	failing := &stubTracker{err: errors.New("meta down")}

	err := Multi{failing, ok}.Track(context.Background(), sampleEvent())
	assert.EqualError(t, err, "meta down")
	assert.Equal(t, 1, ok.calls, "a failing tracker must not stop the others")
	assert.Equal(t, 1, failing.calls)

	assert.NoError(t, Multi{ok}.Track(context.Background(), sampleEvent()))
	assert.NoError(t, Multi{}.Track(context.Background(), sampleEvent()))
}
