package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/secondspine/bookstore/internal/domains/customers/domain"
	"github.com/secondspine/bookstore/internal/domains/customers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory customer adapter keyed by identity subject.
type Repository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
	nextID    int64
}

func NewRepository() *Repository {
	return &Repository{customers: map[string]*domain.Customer{}}
}

func clone(customer *domain.Customer) *domain.Customer {
	copied := *customer
	copied.Addresses = append([]domain.Address(nil), customer.Addresses...)
	return &copied
}

func (r *Repository) GetBySub(_ context.Context, sub string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[sub]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(customer), nil
}

func (r *Repository) Save(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := clone(customer)
	if copied.ID == 0 {
		r.nextID++
		copied.ID = r.nextID
	} else if copied.ID > r.nextID {
		r.nextID = copied.ID
	}
	for i := range copied.Addresses {
		if copied.Addresses[i].ID == 0 {
			r.nextID++
			copied.Addresses[i].ID = r.nextID
		}
	}
	r.customers[copied.Sub] = copied
	return clone(copied), nil
}

type snapshot struct {
	customers map[string]*domain.Customer
	nextID    int64
}

// Snapshot captures the store state for a memtx transaction.
func (r *Repository) Snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customers := make(map[string]*domain.Customer, len(r.customers))
	for sub, customer := range r.customers {
		customers[sub] = clone(customer)
	}
	return snapshot{customers: customers, nextID: r.nextID}
}

// Restore rolls the store back to a previously captured snapshot.
func (r *Repository) Restore(snap any) {
	state, ok := snap.(snapshot)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers = state.customers
	r.nextID = state.nextID
}
