package ports

import (
	"context"
	"errors"

	"github.com/secondspine/bookstore/internal/domains/carts/domain"
)

var ErrNotFound = errors.New("shopping cart not found")

// Repository persists shopping carts. Save replaces the stored item set with
// the aggregate's current one, so removals persist without a separate verb.
type Repository interface {
	Get(ctx context.Context, id string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)
}
