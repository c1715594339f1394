package itemstore

import (
	"errors"
	"sync"
	"time"
)

var ErrValidation = errors.New("validation")

type Kind string

const (
	KindWishlist Kind = "wishlist"
	KindCart     Kind = "cart"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindWishlist, KindCart:
		return Kind(s), true
	}
	return "", false
}

// Item is a snapshot of a product taken when the visitor acted on it. It is
// not refreshed when the backend changes price or stock.
type Item struct {
	ProductID string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// Store is a small ordered set of snapshots keyed by product id.
type Store struct {
	mu    sync.Mutex
	items []Item
	index map[string]int
	now   func() time.Time
}

func NewStore(items []Item, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{index: make(map[string]int, len(items)), now: now}
	for _, it := range items {
		if it.ProductID == "" {
			continue
		}
		s.put(it)
	}
	return s
}

// Add inserts the snapshot, or replaces the existing one for the same product
// id in place.
func (s *Store) Add(it Item) error {
	if it.ProductID == "" {
		return ErrValidation
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(s.stamp(it))
	return nil
}

func (s *Store) Remove(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(productID)
}

func (s *Store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[productID]
	return ok
}

// Toggle removes the product when present and adds it otherwise, as one update.
func (s *Store) Toggle(it Item) (added bool, err error) {
	if it.ProductID == "" {
		return false, ErrValidation
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remove(it.ProductID) {
		return false, nil
	}
	s.put(s.stamp(it))
	return true, nil
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.index = make(map[string]int)
	s.mu.Unlock()
}

// Reset replaces the contents with items, keeping their order.
func (s *Store) Reset(items []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.index = make(map[string]int, len(items))
	for _, it := range items {
		if it.ProductID != "" {
			s.put(it)
		}
	}
}

func (s *Store) stamp(it Item) Item {
	if it.AddedAt.IsZero() {
		it.AddedAt = s.now().UTC()
	}
	return it
}

func (s *Store) put(it Item) {
	if i, ok := s.index[it.ProductID]; ok {
		s.items[i] = it
		return
	}
	s.index[it.ProductID] = len(s.items)
	s.items = append(s.items, it)
}

func (s *Store) remove(productID string) bool {
	i, ok := s.index[productID]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, productID)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ProductID] = j
	}
	return true
}
