package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/secondspine/bookstore/internal/domains/carts/domain"
	"github.com/secondspine/bookstore/internal/domains/carts/ports"
	catalogports "github.com/secondspine/bookstore/internal/domains/catalog/ports"
)

var (
	ErrCartNotFound = errors.New("shopping cart not found")
	ErrBookNotFound = errors.New("book not found")
)

// Service maintains shopping carts ahead of checkout. The cart id doubles as
// the session correlation id, so a fetch for an unseen id starts a new cart.
type Service struct {
	carts ports.Repository
	books catalogports.Repository
}

func NewService(carts ports.Repository, books catalogports.Repository) *Service {
	return &Service{carts: carts, books: books}
}

// GetCart fetches a cart, starting an empty one for an unseen id.
func (s *Service) GetCart(ctx context.Context, cartID, customerSub string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return s.carts.Save(ctx, domain.NewCart(cartID, customerSub))
		}
		return nil, err
	}
	return cart, nil
}

// AddBook puts a book into the cart at its current listing price, merging
// onto an existing line for the same book.
func (s *Service) AddBook(ctx context.Context, cartID, customerSub string, bookID int64, quantity int32) (*domain.Cart, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrBookNotFound, bookID)
		}
		return nil, err
	}
	cart, err := s.GetCart(ctx, cartID, customerSub)
	if err != nil {
		return nil, err
	}
	if err := cart.AddItem(book.ID, book.Price, quantity); err != nil {
		return nil, err
	}
	return s.carts.Save(ctx, cart)
}

// RemoveItem drops a line from the cart.
func (s *Service) RemoveItem(ctx context.Context, cartID string, itemID int64) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCartNotFound, cartID)
		}
		return nil, err
	}
	if err := cart.RemoveItem(itemID); err != nil {
		return nil, err
	}
	return s.carts.Save(ctx, cart)
}
