package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/secondspine/bookstore/internal/domains/catalog/domain"
	"github.com/secondspine/bookstore/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog adapter. It enforces the same
// optimistic version check as the postgres one so the placement race tests
// behave identically against both.
type Repository struct {
	mu      sync.RWMutex
	books   map[int64]*domain.Book
	updates []domain.PriceUpdate
	nextID  int64
}

func NewRepository() *Repository {
	return &Repository{books: map[int64]*domain.Book{}}
}

func clone(book *domain.Book) *domain.Book {
	copied := *book
	copied.Genres = append([]string(nil), book.Genres...)
	return &copied
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	book, ok := r.books[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(book), nil
}

func (r *Repository) Save(_ context.Context, book *domain.Book) (*domain.Book, error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := clone(book)
	if copied.ID == 0 {
		r.nextID++
		copied.ID = r.nextID
		copied.Version = 1
		r.books[copied.ID] = copied
		return clone(copied), nil
	}
	if copied.ID > r.nextID {
		r.nextID = copied.ID
	}
	if stored, ok := r.books[copied.ID]; ok && stored.Version != copied.Version {
		return nil, ports.ErrVersionConflict
	}
	copied.Version++
	r.books[copied.ID] = copied
	return clone(copied), nil
}

func (r *Repository) RecordUpdate(_ context.Context, update domain.PriceUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	update.ID = int64(len(r.updates) + 1)
	r.updates = append(r.updates, update)
	return nil
}

func (r *Repository) RecentUpdates(_ context.Context, filter ports.UpdatesFilter) ([]domain.PriceUpdate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []domain.PriceUpdate
	for _, update := range r.updates {
		mine := update.UpdatedBy == filter.AdminUser
		if filter.Exclude == mine {
			continue
		}
		matched = append(matched, update)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].UpdatedOn.After(matched[j].UpdatedOn) })
	limit := filter.Limit
	if limit <= 0 {
		limit = 5
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type snapshot struct {
	books   map[int64]*domain.Book
	updates []domain.PriceUpdate
	nextID  int64
}

// Snapshot captures the store state for a memtx transaction.
func (r *Repository) Snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	books := make(map[int64]*domain.Book, len(r.books))
	for id, book := range r.books {
		books[id] = clone(book)
	}
	return snapshot{
		books:   books,
		updates: append([]domain.PriceUpdate(nil), r.updates...),
		nextID:  r.nextID,
	}
}

// Restore rolls the store back to a previously captured snapshot.
func (r *Repository) Restore(snap any) {
	state, ok := snap.(snapshot)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = state.books
	r.updates = state.updates
	r.nextID = state.nextID
}
