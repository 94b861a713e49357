package ports

import (
	"context"
	"errors"

	"github.com/secondspine/bookstore/internal/domains/customers/domain"
)

var ErrNotFound = errors.New("customer not found")

// Repository persists customers keyed by the identity-provider subject.
type Repository interface {
	GetBySub(ctx context.Context, sub string) (*domain.Customer, error)
	Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
}
