package ports

import (
	"context"
	"time"
)

// OrderPlacedEvent is announced after a placement commit succeeds.
type OrderPlacedEvent struct {
	OrderID    int64     `json:"order_id"`
	CustomerID int64     `json:"customer_id"`
	Units      int64     `json:"units"`
	SaleAmount float64   `json:"sale_amount"`
	PlacedAt   time.Time `json:"placed_at"`
}

// EventPublisher announces order lifecycle events to interested consumers.
// Publishing is best effort: a failure is logged, never surfaced to the
// caller, and never rolls back the committed order.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error
}
