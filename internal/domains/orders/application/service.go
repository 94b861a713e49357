package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	cartsdomain "github.com/secondspine/bookstore/internal/domains/carts/domain"
	cartsports "github.com/secondspine/bookstore/internal/domains/carts/ports"
	catalogports "github.com/secondspine/bookstore/internal/domains/catalog/ports"
	customersports "github.com/secondspine/bookstore/internal/domains/customers/ports"
	"github.com/secondspine/bookstore/internal/domains/orders/domain"
	"github.com/secondspine/bookstore/internal/domains/orders/ports"
)

// deliveryLeadDays is the standard fulfilment promise: every placed order is
// scheduled this many days out.
const deliveryLeadDays = 7

// Service orchestrates the order use cases: checkout placement, triage for
// the admin dashboard, status transitions, and listings.
type Service struct {
	orders    ports.Repository
	carts     cartsports.Repository
	customers customersports.Repository
	books     catalogports.Repository
	tx        ports.TxRunner
	events    ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithEventPublisher announces placements after the commit succeeds.
func WithEventPublisher(pub ports.EventPublisher) Option {
	return func(s *Service) { s.events = pub }
}

// WithLogger overrides the default process logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService wires the order service with its collaborators.
func NewService(
	orders ports.Repository,
	carts cartsports.Repository,
	customers customersports.Repository,
	books catalogports.Repository,
	tx ports.TxRunner,
	opts ...Option,
) *Service {
	s := &Service{
		orders:    orders,
		carts:     carts,
		customers: customers,
		books:     books,
		tx:        tx,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder converts a shopping cart into an order. Cart items whose book
// lacks sufficient stock are skipped and stay in the cart; every converted
// item decrements the book's stock and is removed from the cart. Order
// creation, stock decrements, and cart removals commit as one unit: a
// failure anywhere leaves none of them observable.
func (s *Service) PlaceOrder(ctx context.Context, cartID string, customerSub string, addressID int64) (*domain.Order, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		if errors.Is(err, cartsports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCartNotFound, cartID)
		}
		return nil, err
	}

	customer, err := s.customers.GetBySub(ctx, customerSub)
	if err != nil {
		if errors.Is(err, customersports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, customerSub)
		}
		return nil, err
	}

	order := domain.NewOrder(customer.ID, addressID)
	order.ScheduleDelivery(s.now().AddDate(0, 0, deliveryLeadDays))
	err = s.tx.Within(ctx, func(ctx context.Context) error {
		saved, err := s.orders.Save(ctx, order)
		if err != nil {
			return err
		}
		order = saved

		// Snapshot the lines: conversion removes them from the cart as we go.
		items := append([]cartsdomain.CartItem(nil), cart.Items...)
		for _, item := range items {
			book, err := s.books.GetByID(ctx, item.BookID)
			if err != nil {
				return err
			}
			if !book.InStock(item.Quantity) {
				continue
			}
			if err := order.AddItem(book.ID, book.Title, book.Price, item.Quantity); err != nil {
				return err
			}
			if err := book.ReduceStock(item.Quantity); err != nil {
				return err
			}
			if _, err := s.books.Save(ctx, book); err != nil {
				return err
			}
			if err := cart.RemoveItem(item.ID); err != nil {
				return err
			}
		}
		if len(order.Items) == 0 {
			return ErrEmptyPlacement
		}
		if _, err := s.orders.Save(ctx, order); err != nil {
			return err
		}
		if _, err := s.carts.Save(ctx, cart); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlacementFailed, err)
	}

	s.announcePlacement(ctx, order)
	return order, nil
}

func (s *Service) announcePlacement(ctx context.Context, order *domain.Order) {
	if s.events == nil {
		return
	}
	event := ports.OrderPlacedEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Units:      order.UnitsSold(),
		SaleAmount: order.SaleAmount(),
		PlacedAt:   s.now().UTC(),
	}
	if err := s.events.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Warn("failed to publish order placed event",
			slog.Int64("order.id", order.ID), slog.String("error", err.Error()))
	}
}

// GetOrder fetches a single order.
func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
		}
		return nil, err
	}
	return order, nil
}

// OrdersForCustomer lists the order history for an identity subject. An
// unknown subject owns no orders and yields an empty history.
func (s *Service) OrdersForCustomer(ctx context.Context, customerSub string) ([]*domain.Order, error) {
	customer, err := s.customers.GetBySub(ctx, customerSub)
	if err != nil {
		if errors.Is(err, customersports.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.orders.ListByCustomer(ctx, customer.ID)
}

// List pages through orders for the admin listing.
func (s *Service) List(ctx context.Context, filters ports.Filters, pageIndex, pageSize int) ([]*domain.Order, int64, error) {
	if pageIndex < 1 {
		pageIndex = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.orders.List(ctx, filters, pageIndex, pageSize)
}

// Statistics summarises the order book.
func (s *Service) Statistics(ctx context.Context) (domain.OrderStatistics, error) {
	return s.orders.Statistics(ctx)
}

// ImportantOrders builds the triage dashboard: pending and delayed orders
// inside the actionable delivery window, annotated with severity and sorted
// by the caller's key. An unknown key leaves the triage order untouched.
func (s *Service) ImportantOrders(ctx context.Context, sortKey string) ([]domain.TriagedOrder, error) {
	orders, err := s.orders.ListByStatuses(ctx, domain.StatusPending, domain.StatusDelayed)
	if err != nil {
		return nil, err
	}
	triaged, err := domain.TriageOrders(orders, s.now())
	if err != nil {
		return nil, err
	}
	return domain.SortTriaged(triaged, sortKey), nil
}

// UpdateStatus transitions an order and stamps its update time.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status domain.Status) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
		}
		return err
	}
	if err := order.UpdateStatus(status); err != nil {
		return err
	}
	_, err = s.orders.Save(ctx, order)
	return err
}

// Cancel cancels an order on behalf of its owner. A missing order, or one
// owned by someone else, is a no-op rather than an error.
func (s *Service) Cancel(ctx context.Context, orderID int64, customerSub string) error {
	customer, err := s.customers.GetBySub(ctx, customerSub)
	if err != nil {
		if errors.Is(err, customersports.ErrNotFound) {
			return nil
		}
		return err
	}
	order, err := s.orders.GetForCustomer(ctx, orderID, customer.ID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil
		}
		return err
	}
	order.Cancel()
	_, err = s.orders.Save(ctx, order)
	return err
}

var _ ports.Service = (*Service)(nil)
