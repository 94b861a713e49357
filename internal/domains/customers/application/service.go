package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/secondspine/bookstore/internal/domains/customers/domain"
	"github.com/secondspine/bookstore/internal/domains/customers/ports"
)

var ErrCustomerNotFound = errors.New("customer not found")

// Service exposes the customer profile use cases. Identity lives with the
// external provider; this service only keeps the profile and addresses that
// checkout needs.
type Service struct {
	customers ports.Repository
}

func NewService(customers ports.Repository) *Service {
	return &Service{customers: customers}
}

// Profile fetches the customer behind an identity subject.
func (s *Service) Profile(ctx context.Context, sub string) (*domain.Customer, error) {
	customer, err := s.customers.GetBySub(ctx, sub)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, sub)
		}
		return nil, err
	}
	return customer, nil
}

// SaveProfile upserts the profile for an identity subject.
func (s *Service) SaveProfile(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	return s.customers.Save(ctx, customer)
}

// Addresses lists the delivery addresses a checkout can ship to.
func (s *Service) Addresses(ctx context.Context, sub string) ([]domain.Address, error) {
	customer, err := s.Profile(ctx, sub)
	if err != nil {
		return nil, err
	}
	return customer.Addresses, nil
}
