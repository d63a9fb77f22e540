package usecase

import (
	"context"
	"log"
	"time"

	"github.com/beanery/storefront/internal/domain"
	"github.com/google/uuid"
)

// ClientInfo carries request metadata forwarded with conversion events
type ClientInfo struct {
	ID        string
	IP        string
	UserAgent string
	PageURL   string
}

func (c ClientInfo) event(name domain.ConversionEventName, currency string) domain.ConversionEvent {
	return domain.ConversionEvent{
		ID:        uuid.NewString(),
		Name:      name,
		ClientID:  c.ID,
		ClientIP:  c.IP,
		UserAgent: c.UserAgent,
		PageURL:   c.PageURL,
		Currency:  currency,
		Time:      time.Now().UTC(),
	}
}

// EventDispatcher sends conversion events without blocking the request
type EventDispatcher struct {
	tracker domain.ConversionTracker
	timeout time.Duration
}

// NewEventDispatcher creates a dispatcher. A nil tracker disables dispatch.
func NewEventDispatcher(tracker domain.ConversionTracker, timeout time.Duration) *EventDispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &EventDispatcher{tracker: tracker, timeout: timeout}
}

// Dispatch forwards the event on its own goroutine with a bounded timeout
func (d *EventDispatcher) Dispatch(event domain.ConversionEvent) {
	if d == nil || d.tracker == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.tracker.Track(ctx, event); err != nil {
			log.Printf("[TRACKING] %s event %s failed: %v", event.Name, event.ID, err)
		}
	}()
}
