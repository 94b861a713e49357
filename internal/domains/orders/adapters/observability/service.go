package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/secondspine/bookstore/internal/domains/orders/domain"
	"github.com/secondspine/bookstore/internal/domains/orders/ports"
)

const (
	tracerName = "github.com/secondspine/bookstore/internal/domains/orders/adapters/observability/service"

	// applicationDimension tags every business metric emitted by the service.
	applicationDimension = "secondspine-bookstore"
)

// Service decorates the order service with tracing, logging, and metrics.
// Business metrics are recorded only after the inner call succeeds, so a
// rolled-back placement never shows up as a sale.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core order service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, cartID string, customerSub string, addressID int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder",
		trace.WithAttributes(attribute.String("cart.id", cartID), attribute.Int64("address.id", addressID)))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("cart.id", cartID))
	start := time.Now()
	order, err := s.inner.PlaceOrder(ctx, cartID, customerSub, addressID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("cart.id", cartID))
	}
	s.metrics.recordPlacement(ctx, order, time.Since(start))
	s.logInfo(ctx, "order placed",
		slog.Int64("order.id", order.ID),
		slog.Int64("customer.id", order.CustomerID),
		slog.Int64("units", order.UnitsSold()))
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return order, nil
}

func (s *Service) OrdersForCustomer(ctx context.Context, customerSub string) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.OrdersForCustomer")
	defer span.End()

	orders, err := s.inner.OrdersForCustomer(ctx, customerSub)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list customer orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

func (s *Service) List(ctx context.Context, filters ports.Filters, pageIndex, pageSize int) ([]*domain.Order, int64, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List",
		trace.WithAttributes(attribute.Int("page.index", pageIndex), attribute.Int("page.size", pageSize)))
	defer span.End()

	orders, total, err := s.inner.List(ctx, filters, pageIndex, pageSize)
	if err != nil {
		return nil, 0, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int64("orders.total", total))
	return orders, total, nil
}

func (s *Service) Statistics(ctx context.Context) (domain.OrderStatistics, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Statistics")
	defer span.End()

	stats, err := s.inner.Statistics(ctx)
	if err != nil {
		return domain.OrderStatistics{}, s.handleError(ctx, span, err, "failed to compute order statistics")
	}
	return stats, nil
}

func (s *Service) ImportantOrders(ctx context.Context, sortKey string) ([]domain.TriagedOrder, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ImportantOrders",
		trace.WithAttributes(attribute.String("sort.key", sortKey)))
	defer span.End()

	s.logInfo(ctx, "building order triage view", slog.String("sort.key", sortKey))
	triaged, err := s.inner.ImportantOrders(ctx, sortKey)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "order triage failed")
	}
	span.SetAttributes(attribute.Int("triage.count", len(triaged)))
	s.metrics.recordTriage(ctx, len(triaged))
	return triaged, nil
}

func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status domain.Status) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.String("order.status", status.String())))
	defer span.End()

	if err := s.inner.UpdateStatus(ctx, orderID, status); err != nil {
		return s.handleError(ctx, span, err, "failed to update order status", slog.Int64("order.id", orderID))
	}
	s.logInfo(ctx, "order status updated", slog.Int64("order.id", orderID), slog.String("order.status", status.String()))
	return nil
}

func (s *Service) Cancel(ctx context.Context, orderID int64, customerSub string) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.Cancel", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	if err := s.inner.Cancel(ctx, orderID, customerSub); err != nil {
		return s.handleError(ctx, span, err, "failed to cancel order", slog.Int64("order.id", orderID))
	}
	s.logInfo(ctx, "order cancel processed", slog.Int64("order.id", orderID))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced   metric.Int64Counter
	booksSold      metric.Int64Counter
	saleAmount     metric.Float64Counter
	processingTime metric.Float64Histogram
	triageSize     metric.Int64Histogram
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("bookstore.orders.placed",
		metric.WithDescription("Number of orders placed"))
	booksSold, _ := m.Int64Counter("bookstore.orders.books_sold",
		metric.WithDescription("Number of books sold, summed over item quantities"))
	saleAmount, _ := m.Float64Counter("bookstore.orders.sale_amount",
		metric.WithDescription("Total sale amount of placed orders"))
	processingTime, _ := m.Float64Histogram("bookstore.orders.processing_time",
		metric.WithDescription("Order placement processing time"), metric.WithUnit("ms"))
	triageSize, _ := m.Int64Histogram("bookstore.orders.triage_size",
		metric.WithDescription("Number of orders surfaced by a triage scan"))
	return serviceMetrics{
		ordersPlaced:   ordersPlaced,
		booksSold:      booksSold,
		saleAmount:     saleAmount,
		processingTime: processingTime,
		triageSize:     triageSize,
	}
}

func (m serviceMetrics) recordPlacement(ctx context.Context, order *domain.Order, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("application", applicationDimension),
		attribute.Int64("customer.id", order.CustomerID),
	)
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, attrs)
	}
	if m.booksSold != nil {
		m.booksSold.Add(ctx, order.UnitsSold(), attrs)
	}
	if m.saleAmount != nil {
		m.saleAmount.Add(ctx, order.SaleAmount(), attrs)
	}
	if m.processingTime != nil {
		m.processingTime.Record(ctx, float64(elapsed.Milliseconds()), attrs)
	}
}

func (m serviceMetrics) recordTriage(ctx context.Context, size int) {
	if m.triageSize != nil {
		m.triageSize.Record(ctx, int64(size),
			metric.WithAttributes(attribute.String("application", applicationDimension)))
	}
}

var _ ports.Service = (*Service)(nil)
