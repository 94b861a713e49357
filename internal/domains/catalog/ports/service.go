package ports

import (
	"context"

	"github.com/secondspine/bookstore/internal/domains/catalog/domain"
)

// Service exposes the back-office inventory use cases.
type Service interface {
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	UpdatePrice(ctx context.Context, bookID int64, price float64, adminUser string) (*domain.Book, error)
	RestockBook(ctx context.Context, bookID int64, quantity int32, adminUser string) (*domain.Book, error)
	// RecentUpdates lists the latest inventory touches made by adminUser.
	RecentUpdates(ctx context.Context, adminUser string) ([]domain.PriceUpdate, error)
	// RecentGlobalUpdates lists the latest touches made by everyone else.
	RecentGlobalUpdates(ctx context.Context, adminUser string) ([]domain.PriceUpdate, error)
}
