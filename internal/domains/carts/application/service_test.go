package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondspine/bookstore/internal/domains/carts/domain"
	"github.com/secondspine/bookstore/internal/domains/carts/ports"
	catalogdomain "github.com/secondspine/bookstore/internal/domains/catalog/domain"
	catalogports "github.com/secondspine/bookstore/internal/domains/catalog/ports"
)

type fakeCartRepo struct {
	carts  map[string]*domain.Cart
	nextID int64
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]*domain.Cart{}}
}

func (r *fakeCartRepo) Get(_ context.Context, id string) (*domain.Cart, error) {
	cart, ok := r.carts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (r *fakeCartRepo) Save(_ context.Context, cart *domain.Cart) (*domain.Cart, error) {
	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	for i := range copied.Items {
		if copied.Items[i].ID == 0 {
			r.nextID++
			copied.Items[i].ID = r.nextID
		}
	}
	r.carts[copied.ID] = &copied
	out := copied
	out.Items = append([]domain.CartItem(nil), copied.Items...)
	return &out, nil
}

type fakeCatalog struct {
	books map[int64]*catalogdomain.Book
}

func (r *fakeCatalog) GetByID(_ context.Context, id int64) (*catalogdomain.Book, error) {
	book, ok := r.books[id]
	if !ok {
		return nil, catalogports.ErrNotFound
	}
	copied := *book
	return &copied, nil
}

func (r *fakeCatalog) Save(_ context.Context, book *catalogdomain.Book) (*catalogdomain.Book, error) {
	return book, nil
}

func (r *fakeCatalog) RecordUpdate(context.Context, catalogdomain.PriceUpdate) error { return nil }

func (r *fakeCatalog) RecentUpdates(context.Context, catalogports.UpdatesFilter) ([]catalogdomain.PriceUpdate, error) {
	return nil, nil
}

func newFixture() (*Service, *fakeCartRepo) {
	carts := newFakeCartRepo()
	books := &fakeCatalog{books: map[int64]*catalogdomain.Book{
		1: {ID: 1, Title: "SICP", Price: 20, StockLevel: 5},
	}}
	return NewService(carts, books), carts
}

func TestGetCart_StartsEmptyCartForUnseenID(t *testing.T) {
	svc, repo := newFixture()

	cart, err := svc.GetCart(context.Background(), "cart-1", "sub-7")
	require.NoError(t, err)

	assert.Equal(t, "cart-1", cart.ID)
	assert.Equal(t, "sub-7", cart.CustomerSub)
	assert.Empty(t, cart.Items)
	assert.Contains(t, repo.carts, "cart-1")
}

func TestAddBook_CapturesListingPrice(t *testing.T) {
	svc, _ := newFixture()

	cart, err := svc.AddBook(context.Background(), "cart-1", "sub-7", 1, 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(1), cart.Items[0].BookID)
	assert.Equal(t, 20.0, cart.Items[0].Price)
	assert.Equal(t, int32(2), cart.Items[0].Quantity)
}

func TestAddBook_MergesSameBook(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.AddBook(context.Background(), "cart-1", "sub-7", 1, 2)
	require.NoError(t, err)
	cart, err := svc.AddBook(context.Background(), "cart-1", "sub-7", 1, 1)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, int32(3), cart.Items[0].Quantity)
}

func TestAddBook_UnknownBook(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.AddBook(context.Background(), "cart-1", "sub-7", 99, 1)
	require.ErrorIs(t, err, ErrBookNotFound)
}

func TestRemoveItem(t *testing.T) {
	svc, _ := newFixture()

	cart, err := svc.AddBook(context.Background(), "cart-1", "sub-7", 1, 2)
	require.NoError(t, err)

	cart, err = svc.RemoveItem(context.Background(), "cart-1", cart.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestRemoveItem_UnknownCart(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.RemoveItem(context.Background(), "missing", 1)
	require.ErrorIs(t, err, ErrCartNotFound)
}

func TestRemoveItem_UnknownItem(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.AddBook(context.Background(), "cart-1", "sub-7", 1, 2)
	require.NoError(t, err)

	_, err = svc.RemoveItem(context.Background(), "cart-1", 999)
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}
