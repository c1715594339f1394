package itemstore

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type entry struct {
	// write serializes mutate-and-save so the persister sees updates in the
	// order they were applied.
	write    sync.Mutex
	store    *Store
	lastSeen time.Time
}

// Registry owns one Store per visitor and kind. Stores are loaded lazily and
// every mutation is written through to the Persister.
type Registry struct {
	persister Persister
	now       func() time.Time

	mu     sync.Mutex
	stores map[key]*entry
}

func NewRegistry(p Persister, now func() time.Time) *Registry {
	if p == nil {
		p = NewMemoryPersister()
	}
	if now == nil {
		now = time.Now
	}
	return &Registry{persister: p, now: now, stores: make(map[key]*entry)}
}

func (r *Registry) Get(ctx context.Context, owner string, kind Kind) (*Store, error) {
	e, err := r.entry(ctx, owner, kind)
	if err != nil {
		return nil, err
	}
	return e.store, nil
}

func (r *Registry) entry(ctx context.Context, owner string, kind Kind) (*entry, error) {
	k := key{owner, kind}

	r.mu.Lock()
	if e, ok := r.stores[k]; ok {
		e.lastSeen = r.now()
		r.mu.Unlock()
		return e, nil
	}
	r.mu.Unlock()

	items, err := r.persister.Load(ctx, owner, kind)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another request may have loaded it meanwhile
	if e, ok := r.stores[k]; ok {
		e.lastSeen = r.now()
		return e, nil
	}
	e := &entry{store: NewStore(items, r.now), lastSeen: r.now()}
	r.stores[k] = e
	return e, nil
}

// Update applies fn to the visitor's store and persists the result. When fn
// or the save fails the store is put back to its previous contents.
func (r *Registry) Update(ctx context.Context, owner string, kind Kind, fn func(*Store) error) (*Store, error) {
	e, err := r.entry(ctx, owner, kind)
	if err != nil {
		return nil, err
	}
	e.write.Lock()
	defer e.write.Unlock()

	s := e.store
	before := s.Items()
	if err := fn(s); err != nil {
		s.Reset(before)
		return s, err
	}
	if err := r.persister.Save(ctx, owner, kind, s.Items()); err != nil {
		s.Reset(before)
		return s, fmt.Errorf("save %s: %w", kind, err)
	}
	return s, nil
}

// Drop tears down every store of the visitor, in memory and persisted.
func (r *Registry) Drop(ctx context.Context, owner string) error {
	r.mu.Lock()
	for k := range r.stores {
		if k.owner == owner {
			delete(r.stores, k)
		}
	}
	r.mu.Unlock()
	return r.persister.Delete(ctx, owner)
}

// Sweep forgets in-memory stores idle for longer than maxIdle. Persisted
// items stay and are reloaded on the next visit.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, e := range r.stores {
		if e.lastSeen.Before(cutoff) {
			delete(r.stores, k)
			n++
		}
	}
	return n
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep(maxIdle)
		}
	}
}
