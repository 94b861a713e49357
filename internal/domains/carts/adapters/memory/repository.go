package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/secondspine/bookstore/internal/domains/carts/domain"
	"github.com/secondspine/bookstore/internal/domains/carts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory shopping cart adapter.
type Repository struct {
	mu     sync.RWMutex
	carts  map[string]*domain.Cart
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{carts: map[string]*domain.Cart{}}
}

func clone(cart *domain.Cart) *domain.Cart {
	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	return &copied
}

func (r *Repository) Get(_ context.Context, id string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(cart), nil
}

func (r *Repository) Save(_ context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if cart == nil {
		return nil, errors.New("cart is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := clone(cart)
	for i := range copied.Items {
		if copied.Items[i].ID == 0 {
			r.nextID++
			copied.Items[i].ID = r.nextID
		} else if copied.Items[i].ID > r.nextID {
			r.nextID = copied.Items[i].ID
		}
	}
	r.carts[copied.ID] = copied
	return clone(copied), nil
}

type snapshot struct {
	carts  map[string]*domain.Cart
	nextID int64
}

// Snapshot captures the store state for a memtx transaction.
func (r *Repository) Snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	carts := make(map[string]*domain.Cart, len(r.carts))
	for id, cart := range r.carts {
		carts[id] = clone(cart)
	}
	return snapshot{carts: carts, nextID: r.nextID}
}

// Restore rolls the store back to a previously captured snapshot.
func (r *Repository) Restore(snap any) {
	state, ok := snap.(snapshot)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts = state.carts
	r.nextID = state.nextID
}
