package events

import (
	"context"
	"sync"
	"time"
)

const (
	WishlistAdded   = "wishlist_added"
	WishlistRemoved = "wishlist_removed"
	BagAdded        = "bag_added"
	BagRemoved      = "bag_removed"
	CartUpdated     = "cart_updated"
	OrderPlaced     = "order_placed"
	OrderCancelled  = "order_cancelled"
	UserLoggedIn    = "user_logged_in"
	UserLoggedOut   = "user_logged_out"
)

// Event is one storefront activity record.
type Event struct {
	Type      string         `json:"type"`
	VisitorID string         `json:"visitor_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	ProductID string         `json:"product_id,omitempty"`
	OrderID   string         `json:"order_id,omitempty"`
	At        time.Time      `json:"at"`
	Data      map[string]any `json:"data,omitempty"`
}

// Key partitions events so one visitor's activity stays ordered.
func (e Event) Key() string {
	if e.UserID != "" {
		return e.UserID
	}
	return e.VisitorID
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
