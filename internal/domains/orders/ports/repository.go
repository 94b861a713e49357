package ports

import (
	"context"
	"errors"

	"github.com/secondspine/bookstore/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Filters narrows admin order listings.
type Filters struct {
	Status *domain.Status
}

// Repository persists orders and their items.
type Repository interface {
	// Save inserts or updates the order together with its items. On insert
	// the assigned identity is reflected on the returned aggregate.
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// GetForCustomer scopes the lookup to the owning customer.
	GetForCustomer(ctx context.Context, id int64, customerID int64) (*domain.Order, error)
	ListByStatuses(ctx context.Context, statuses ...domain.Status) ([]*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error)
	// List pages through orders for the admin listing, returning the page
	// and the total match count.
	List(ctx context.Context, filters Filters, pageIndex, pageSize int) ([]*domain.Order, int64, error)
	Statistics(ctx context.Context) (domain.OrderStatistics, error)
}

// TxRunner executes fn inside a single atomic commit scope. Every repository
// write made through the fn's context belongs to that scope: all of them
// commit together or none do.
type TxRunner interface {
	Within(ctx context.Context, fn func(ctx context.Context) error) error
}
