// Package memtx is the in-memory counterpart of the database unit of work.
// It gives the memory adapters the same all-or-nothing commit semantics the
// postgres transaction runner provides, which is what the placement workflow
// and its tests rely on.
package memtx

import (
	"context"
	"sync"
)

// Snapshotter is implemented by memory stores that can capture and restore
// their full state.
type Snapshotter interface {
	Snapshot() any
	Restore(snapshot any)
}

// Runner serializes transactions over a set of memory stores. When fn fails,
// every registered store is restored to its pre-transaction snapshot.
type Runner struct {
	mu     sync.Mutex
	stores []Snapshotter
}

// NewRunner registers the stores participating in transactions.
func NewRunner(stores ...Snapshotter) *Runner {
	return &Runner{stores: stores}
}

// Within runs fn as one atomic unit over the registered stores.
func (r *Runner) Within(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshots := make([]any, len(r.stores))
	for i, store := range r.stores {
		snapshots[i] = store.Snapshot()
	}
	if err := fn(ctx); err != nil {
		for i, store := range r.stores {
			store.Restore(snapshots[i])
		}
		return err
	}
	return nil
}
