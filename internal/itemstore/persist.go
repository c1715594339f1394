package itemstore

import (
	"context"
	"sync"
)

// Persister keeps item stores across restarts.
type Persister interface {
	Load(ctx context.Context, owner string, kind Kind) ([]Item, error)
	Save(ctx context.Context, owner string, kind Kind, items []Item) error
	Delete(ctx context.Context, owner string) error
}

type key struct {
	owner string
	kind  Kind
}

type MemoryPersister struct {
	mu   sync.Mutex
	data map[key][]Item
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{data: make(map[key][]Item)}
}

func (m *MemoryPersister) Load(_ context.Context, owner string, kind Kind) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.data[key{owner, kind}]
	out := make([]Item, len(items))
	copy(out, items)
	return out, nil
}

func (m *MemoryPersister) Save(_ context.Context, owner string, kind Kind, items []Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]Item, len(items))
	copy(cp, items)
	m.data[key{owner, kind}] = cp
	return nil
}

func (m *MemoryPersister) Delete(_ context.Context, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if k.owner == owner {
			delete(m.data, k)
		}
	}
	return nil
}
