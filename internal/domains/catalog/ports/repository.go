package ports

import (
	"context"
	"errors"

	"github.com/secondspine/bookstore/internal/domains/catalog/domain"
)

var (
	ErrNotFound = errors.New("book not found")
	// ErrVersionConflict signals a concurrent writer bumped the book's
	// optimistic token between read and save.
	ErrVersionConflict = errors.New("book version conflict")
)

// UpdatesFilter selects journal entries for the back-office dashboard.
type UpdatesFilter struct {
	AdminUser string
	// Exclude flips the filter from "updates by AdminUser" to
	// "updates by everyone else".
	Exclude bool
	Limit   int
}

// Repository persists books and the inventory-update journal.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	// Save persists the book, enforcing the optimistic version token on
	// updates. The stored version is bumped on success.
	Save(ctx context.Context, book *domain.Book) (*domain.Book, error)
	RecordUpdate(ctx context.Context, update domain.PriceUpdate) error
	RecentUpdates(ctx context.Context, filter UpdatesFilter) ([]domain.PriceUpdate, error)
}
