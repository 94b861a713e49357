package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartsdomain "github.com/secondspine/bookstore/internal/domains/carts/domain"
	cartsports "github.com/secondspine/bookstore/internal/domains/carts/ports"
	catalogdomain "github.com/secondspine/bookstore/internal/domains/catalog/domain"
	catalogports "github.com/secondspine/bookstore/internal/domains/catalog/ports"
	customersdomain "github.com/secondspine/bookstore/internal/domains/customers/domain"
	customersports "github.com/secondspine/bookstore/internal/domains/customers/ports"
	"github.com/secondspine/bookstore/internal/domains/orders/domain"
	"github.com/secondspine/bookstore/internal/domains/orders/ports"
)

type snapshotter interface {
	snapshot() any
	restore(any)
}

// fakeTx mirrors the production unit of work: on any failure inside fn (or a
// forced commit failure) every registered store is restored to its snapshot.
type fakeTx struct {
	stores    []snapshotter
	commitErr error
}

func (t *fakeTx) Within(ctx context.Context, fn func(ctx context.Context) error) error {
	snaps := make([]any, len(t.stores))
	for i, s := range t.stores {
		snaps[i] = s.snapshot()
	}
	err := fn(ctx)
	if err == nil {
		err = t.commitErr
	}
	if err != nil {
		for i, s := range t.stores {
			s.restore(snaps[i])
		}
	}
	return err
}

type fakeOrderRepo struct {
	orders  map[int64]*domain.Order
	nextID  int64
	saveErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*domain.Order{}}
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Items = append([]domain.OrderItem(nil), o.Items...)
	return &clone
}

func (f *fakeOrderRepo) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	clone := cloneOrder(order)
	if clone.ID == 0 {
		f.nextID++
		clone.ID = f.nextID
	}
	f.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	if o, ok := f.orders[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeOrderRepo) GetForCustomer(_ context.Context, id, customerID int64) (*domain.Order, error) {
	if o, ok := f.orders[id]; ok && o.CustomerID == customerID {
		return cloneOrder(o), nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeOrderRepo) ListByStatuses(_ context.Context, statuses ...domain.Status) ([]*domain.Order, error) {
	var list []*domain.Order
	for _, o := range f.orders {
		for _, s := range statuses {
			if o.Status == s {
				list = append(list, cloneOrder(o))
				break
			}
		}
	}
	return list, nil
}

func (f *fakeOrderRepo) ListByCustomer(_ context.Context, customerID int64) ([]*domain.Order, error) {
	var list []*domain.Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			list = append(list, cloneOrder(o))
		}
	}
	return list, nil
}

func (f *fakeOrderRepo) List(_ context.Context, filters ports.Filters, pageIndex, pageSize int) ([]*domain.Order, int64, error) {
	var list []*domain.Order
	for _, o := range f.orders {
		if filters.Status != nil && o.Status != *filters.Status {
			continue
		}
		list = append(list, cloneOrder(o))
	}
	return list, int64(len(list)), nil
}

func (f *fakeOrderRepo) Statistics(_ context.Context) (domain.OrderStatistics, error) {
	var stats domain.OrderStatistics
	for _, o := range f.orders {
		stats.Total++
		switch o.Status {
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

func (f *fakeOrderRepo) snapshot() any {
	snap := make(map[int64]*domain.Order, len(f.orders))
	for id, o := range f.orders {
		snap[id] = cloneOrder(o)
	}
	return snap
}

func (f *fakeOrderRepo) restore(snap any) { f.orders = snap.(map[int64]*domain.Order) }

type fakeCartRepo struct {
	carts   map[string]*cartsdomain.Cart
	saveErr error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]*cartsdomain.Cart{}}
}

func cloneCart(c *cartsdomain.Cart) *cartsdomain.Cart {
	clone := *c
	clone.Items = append([]cartsdomain.CartItem(nil), c.Items...)
	return &clone
}

func (f *fakeCartRepo) Get(_ context.Context, id string) (*cartsdomain.Cart, error) {
	if c, ok := f.carts[id]; ok {
		return cloneCart(c), nil
	}
	return nil, cartsports.ErrNotFound
}

func (f *fakeCartRepo) Save(_ context.Context, cart *cartsdomain.Cart) (*cartsdomain.Cart, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.carts[cart.ID] = cloneCart(cart)
	return cloneCart(cart), nil
}

func (f *fakeCartRepo) snapshot() any {
	snap := make(map[string]*cartsdomain.Cart, len(f.carts))
	for id, c := range f.carts {
		snap[id] = cloneCart(c)
	}
	return snap
}

func (f *fakeCartRepo) restore(snap any) { f.carts = snap.(map[string]*cartsdomain.Cart) }

type fakeCustomerRepo struct {
	bySub map[string]*customersdomain.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{bySub: map[string]*customersdomain.Customer{}}
}

func (f *fakeCustomerRepo) GetBySub(_ context.Context, sub string) (*customersdomain.Customer, error) {
	if c, ok := f.bySub[sub]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, customersports.ErrNotFound
}

func (f *fakeCustomerRepo) Save(_ context.Context, c *customersdomain.Customer) (*customersdomain.Customer, error) {
	clone := *c
	f.bySub[c.Sub] = &clone
	return c, nil
}

type fakeBookRepo struct {
	books   map[int64]*catalogdomain.Book
	saveErr error
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[int64]*catalogdomain.Book{}}
}

func (f *fakeBookRepo) GetByID(_ context.Context, id int64) (*catalogdomain.Book, error) {
	if b, ok := f.books[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, catalogports.ErrNotFound
}

func (f *fakeBookRepo) Save(_ context.Context, book *catalogdomain.Book) (*catalogdomain.Book, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	stored, ok := f.books[book.ID]
	if ok && stored.Version != book.Version {
		return nil, catalogports.ErrVersionConflict
	}
	clone := *book
	clone.Version++
	f.books[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (f *fakeBookRepo) RecordUpdate(_ context.Context, _ catalogdomain.PriceUpdate) error {
	return nil
}

func (f *fakeBookRepo) RecentUpdates(_ context.Context, _ catalogports.UpdatesFilter) ([]catalogdomain.PriceUpdate, error) {
	return nil, nil
}

func (f *fakeBookRepo) snapshot() any {
	snap := make(map[int64]*catalogdomain.Book, len(f.books))
	for id, b := range f.books {
		clone := *b
		snap[id] = &clone
	}
	return snap
}

func (f *fakeBookRepo) restore(snap any) { f.books = snap.(map[int64]*catalogdomain.Book) }

type fakePublisher struct {
	events []ports.OrderPlacedEvent
	err    error
}

func (f *fakePublisher) PublishOrderPlaced(_ context.Context, event ports.OrderPlacedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fixture struct {
	orders    *fakeOrderRepo
	carts     *fakeCartRepo
	customers *fakeCustomerRepo
	books     *fakeBookRepo
	tx        *fakeTx
}

func newFixture() *fixture {
	f := &fixture{
		orders:    newFakeOrderRepo(),
		carts:     newFakeCartRepo(),
		customers: newFakeCustomerRepo(),
		books:     newFakeBookRepo(),
	}
	f.tx = &fakeTx{stores: []snapshotter{f.orders, f.carts, f.books}}
	return f
}

func (f *fixture) service(opts ...Option) *Service {
	return NewService(f.orders, f.carts, f.customers, f.books, f.tx, opts...)
}

func (f *fixture) seedCheckout(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.customers.Save(ctx, &customersdomain.Customer{ID: 7, Sub: "sub-7", Name: "Ada"})
	require.NoError(t, err)

	f.books.books[1] = &catalogdomain.Book{ID: 1, Title: "SICP", Price: 20, StockLevel: 5}
	f.books.books[2] = &catalogdomain.Book{ID: 2, Title: "TAPL", Price: 30, StockLevel: 2}
	f.books.books[3] = &catalogdomain.Book{ID: 3, Title: "Dragon Book", Price: 15, StockLevel: 0}

	cart := &cartsdomain.Cart{ID: "cart-1", CustomerSub: "sub-7", Items: []cartsdomain.CartItem{
		{ID: 11, BookID: 1, Price: 20, Quantity: 2},
		{ID: 12, BookID: 2, Price: 30, Quantity: 1},
		{ID: 13, BookID: 3, Price: 15, Quantity: 1},
	}}
	_, err = f.carts.Save(ctx, cart)
	require.NoError(t, err)
}

func TestPlaceOrder_ConvertsInStockItemsOnly(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	svc := f.service()

	order, err := svc.PlaceOrder(context.Background(), "cart-1", "sub-7", 3)
	require.NoError(t, err)
	require.NotZero(t, order.ID)

	require.Len(t, order.Items, 2, "only in-stock items convert")
	assert.InDelta(t, 70.0, order.Subtotal, 1e-9)
	assert.Equal(t, int64(3), order.UnitsSold())
	assert.Equal(t, int64(7), order.CustomerID)
	assert.Equal(t, int64(3), order.AddressID)

	assert.Equal(t, int32(3), f.books.books[1].StockLevel, "stock decremented")
	assert.Equal(t, int32(1), f.books.books[2].StockLevel, "stock decremented")
	assert.Equal(t, int32(0), f.books.books[3].StockLevel, "out-of-stock book untouched")

	cart := f.carts.carts["cart-1"]
	require.Len(t, cart.Items, 1, "out-of-stock item stays in the cart")
	assert.Equal(t, int64(3), cart.Items[0].BookID)

	persisted, err := f.orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, persisted.Items, 2)
}

func TestPlaceOrder_SchedulesDeliveryDate(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	svc := f.service()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	order, err := svc.PlaceOrder(context.Background(), "cart-1", "sub-7", 3)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, deliveryLeadDays).Format(domain.DeliveryDateLayout), order.DeliveryDate)

	// A freshly placed order must never poison the triage batch.
	_, err = svc.ImportantOrders(context.Background(), domain.SortPrice)
	require.NoError(t, err)
}

func TestPlaceOrder_CommitFailureRollsBackEverything(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	f.tx.commitErr = errors.New("commit refused")
	svc := f.service()

	_, err := svc.PlaceOrder(context.Background(), "cart-1", "sub-7", 3)
	require.ErrorIs(t, err, ErrPlacementFailed)

	assert.Empty(t, f.orders.orders, "no order row survives a failed commit")
	assert.Equal(t, int32(5), f.books.books[1].StockLevel, "no stock decrement survives")
	assert.Equal(t, int32(2), f.books.books[2].StockLevel, "no stock decrement survives")
	assert.Len(t, f.carts.carts["cart-1"].Items, 3, "no cart removal survives")
}

func TestPlaceOrder_PersistenceFailureMidWorkflowRollsBack(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	f.carts.saveErr = errors.New("cart write failed")
	svc := f.service()

	_, err := svc.PlaceOrder(context.Background(), "cart-1", "sub-7", 3)
	require.ErrorIs(t, err, ErrPlacementFailed)
	assert.Empty(t, f.orders.orders)
	assert.Equal(t, int32(5), f.books.books[1].StockLevel)
}

func TestPlaceOrder_StockVersionConflictAborts(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	f.books.saveErr = catalogports.ErrVersionConflict
	svc := f.service()

	_, err := svc.PlaceOrder(context.Background(), "cart-1", "sub-7", 3)
	require.ErrorIs(t, err, ErrPlacementFailed)
	require.ErrorIs(t, err, catalogports.ErrVersionConflict)
	assert.Empty(t, f.orders.orders)
}

func TestPlaceOrder_NothingInStock(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	for _, book := range f.books.books {
		book.StockLevel = 0
	}
	svc := f.service()

	_, err := svc.PlaceOrder(context.Background(), "cart-1", "sub-7", 3)
	require.ErrorIs(t, err, ErrEmptyPlacement)
	assert.Empty(t, f.orders.orders, "no empty order is created")
	assert.Len(t, f.carts.carts["cart-1"].Items, 3)
}

func TestPlaceOrder_CartNotFound(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	svc := f.service()

	_, err := svc.PlaceOrder(context.Background(), "no-such-cart", "sub-7", 3)
	require.ErrorIs(t, err, ErrCartNotFound)
}

func TestPlaceOrder_CustomerNotFound(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	svc := f.service()

	_, err := svc.PlaceOrder(context.Background(), "cart-1", "who-dis", 3)
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestPlaceOrder_PublishesEventAfterCommit(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	pub := &fakePublisher{}
	svc := f.service(WithEventPublisher(pub))

	order, err := svc.PlaceOrder(context.Background(), "cart-1", "sub-7", 3)
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, order.ID, pub.events[0].OrderID)
	assert.Equal(t, int64(3), pub.events[0].Units)
	assert.InDelta(t, 70.0, pub.events[0].SaleAmount, 1e-9)
}

func TestPlaceOrder_PublishFailureDoesNotFailPlacement(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := f.service(WithEventPublisher(pub))

	order, err := svc.PlaceOrder(context.Background(), "cart-1", "sub-7", 3)
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
}

func TestCancel_UnknownOrderIsNoOp(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	svc := f.service()

	require.NoError(t, svc.Cancel(context.Background(), 999, "sub-7"))
	require.NoError(t, svc.Cancel(context.Background(), 999, "unknown-sub"))
}

func TestCancel_NotOwnedIsNoOp(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	order := domain.NewOrder(42, 1)
	require.NoError(t, order.AddItem(1, "SICP", 20, 1))
	saved, err := f.orders.Save(context.Background(), order)
	require.NoError(t, err)
	svc := f.service()

	require.NoError(t, svc.Cancel(context.Background(), saved.ID, "sub-7"))

	unchanged, err := f.orders.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, unchanged.Status, "foreign order left untouched")
}

func TestCancel_OwnedOrder(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	order := domain.NewOrder(7, 1)
	require.NoError(t, order.AddItem(1, "SICP", 20, 1))
	saved, err := f.orders.Save(context.Background(), order)
	require.NoError(t, err)
	svc := f.service()

	require.NoError(t, svc.Cancel(context.Background(), saved.ID, "sub-7"))

	cancelled, err := f.orders.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	order := domain.NewOrder(7, 1)
	require.NoError(t, order.AddItem(1, "SICP", 20, 1))
	saved, err := f.orders.Save(context.Background(), order)
	require.NoError(t, err)
	svc := f.service()

	require.NoError(t, svc.UpdateStatus(context.Background(), saved.ID, domain.StatusDelayed))
	updated, err := f.orders.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelayed, updated.Status)

	require.ErrorIs(t, svc.UpdateStatus(context.Background(), 999, domain.StatusDelayed), ErrOrderNotFound)
	require.ErrorIs(t, svc.UpdateStatus(context.Background(), saved.ID, domain.Status(42)), domain.ErrInvalidStatus)
}

func TestImportantOrders_FiltersAndSorts(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format(domain.DeliveryDateLayout) }

	seed := []*domain.Order{
		{CustomerID: 7, Status: domain.StatusPending, DeliveryDate: day(3), Subtotal: 30},
		{CustomerID: 7, Status: domain.StatusPending, DeliveryDate: day(-2), Subtotal: 10},
		{CustomerID: 7, Status: domain.StatusDelayed, DeliveryDate: day(-2), Subtotal: 20},
		{CustomerID: 7, Status: domain.StatusDelayed, DeliveryDate: day(-6), Subtotal: 99},
		{CustomerID: 7, Status: domain.StatusCompleted, DeliveryDate: day(1), Subtotal: 50},
	}
	for _, o := range seed {
		_, err := f.orders.Save(context.Background(), o)
		require.NoError(t, err)
	}
	svc := f.service()
	svc.now = func() time.Time { return now }

	triaged, err := svc.ImportantOrders(context.Background(), domain.SortPrice)
	require.NoError(t, err)
	require.Len(t, triaged, 3, "stale delayed and completed orders excluded")
	assert.InDelta(t, 10.0, triaged[0].Order.Subtotal, 1e-9)
	assert.InDelta(t, 20.0, triaged[1].Order.Subtotal, 1e-9)
	assert.InDelta(t, 30.0, triaged[2].Order.Subtotal, 1e-9)
	for _, to := range triaged {
		if to.Order.Status == domain.StatusDelayed || to.Order.Subtotal == 10 {
			assert.Equal(t, 2, to.Severity)
		}
	}
}

func TestImportantOrders_MalformedDateFailsBatch(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	_, err := f.orders.Save(context.Background(), &domain.Order{CustomerID: 7, Status: domain.StatusPending, DeliveryDate: "soon"})
	require.NoError(t, err)
	svc := f.service()

	_, err = svc.ImportantOrders(context.Background(), domain.SortDate)
	require.ErrorIs(t, err, domain.ErrTriage)
}

func TestOrdersForCustomer_UnknownSubYieldsEmptyHistory(t *testing.T) {
	f := newFixture()
	svc := f.service()

	orders, err := svc.OrdersForCustomer(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStatistics(t *testing.T) {
	f := newFixture()
	f.seedCheckout(t)
	for _, st := range []domain.Status{domain.StatusPending, domain.StatusPending, domain.StatusDelayed, domain.StatusCancelled} {
		_, err := f.orders.Save(context.Background(), &domain.Order{CustomerID: 7, Status: st, DeliveryDate: "2025-01-01"})
		require.NoError(t, err)
	}
	svc := f.service()

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Delayed)
	assert.Equal(t, int64(1), stats.Cancelled)
}
