package ports

import (
	"context"

	"github.com/secondspine/bookstore/internal/domains/orders/domain"
)

// Service exposes the order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, cartID string, customerSub string, addressID int64) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	OrdersForCustomer(ctx context.Context, customerSub string) ([]*domain.Order, error)
	List(ctx context.Context, filters Filters, pageIndex, pageSize int) ([]*domain.Order, int64, error)
	Statistics(ctx context.Context) (domain.OrderStatistics, error)
	// ImportantOrders returns the triage dashboard view: pending and delayed
	// orders inside the actionable window, sorted by the given key.
	ImportantOrders(ctx context.Context, sortKey string) ([]domain.TriagedOrder, error)
	UpdateStatus(ctx context.Context, orderID int64, status domain.Status) error
	Cancel(ctx context.Context, orderID int64, customerSub string) error
}
