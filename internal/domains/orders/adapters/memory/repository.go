package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/secondspine/bookstore/internal/domains/orders/domain"
	"github.com/secondspine/bookstore/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. It snapshots and
// restores its state so a memtx unit of work can roll back a failed
// placement.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}}
}

func clone(order *domain.Order) *domain.Order {
	copied := *order
	copied.Items = append([]domain.OrderItem(nil), order.Items...)
	return &copied
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := clone(order)
	if copied.ID == 0 {
		r.nextID++
		copied.ID = r.nextID
	} else if copied.ID > r.nextID {
		r.nextID = copied.ID
	}
	r.orders[copied.ID] = copied
	return clone(copied), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(order), nil
}

func (r *Repository) GetForCustomer(_ context.Context, id, customerID int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok || order.CustomerID != customerID {
		return nil, ports.ErrNotFound
	}
	return clone(order), nil
}

func (r *Repository) ListByStatuses(_ context.Context, statuses ...domain.Status) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for _, order := range r.orders {
		for _, status := range statuses {
			if order.Status == status {
				list = append(list, clone(order))
				break
			}
		}
	}
	return list, nil
}

func (r *Repository) ListByCustomer(_ context.Context, customerID int64) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			list = append(list, clone(order))
		}
	}
	return list, nil
}

func (r *Repository) List(_ context.Context, filters ports.Filters, pageIndex, pageSize int) ([]*domain.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*domain.Order
	for _, order := range r.orders {
		if filters.Status != nil && order.Status != *filters.Status {
			continue
		}
		matched = append(matched, clone(order))
	}
	// Newest first, matching the created_at ordering of the postgres adapter.
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := int64(len(matched))
	start := (pageIndex - 1) * pageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *Repository) Statistics(_ context.Context) (domain.OrderStatistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var stats domain.OrderStatistics
	for _, order := range r.orders {
		stats.Total++
		switch order.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusDelayed:
			stats.Delayed++
		case domain.StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

type snapshot struct {
	orders map[int64]*domain.Order
	nextID int64
}

// Snapshot captures the store state for a memtx transaction.
func (r *Repository) Snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	orders := make(map[int64]*domain.Order, len(r.orders))
	for id, order := range r.orders {
		orders[id] = clone(order)
	}
	return snapshot{orders: orders, nextID: r.nextID}
}

// Restore rolls the store back to a previously captured snapshot.
func (r *Repository) Restore(snap any) {
	state, ok := snap.(snapshot)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = state.orders
	r.nextID = state.nextID
}
