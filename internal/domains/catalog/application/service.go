package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/secondspine/bookstore/internal/domains/catalog/domain"
	"github.com/secondspine/bookstore/internal/domains/catalog/ports"
)

var ErrBookNotFound = errors.New("book not found")

// dashboardLimit caps each recent-activity panel on the admin dashboard.
const dashboardLimit = 5

// Service implements the back-office inventory use cases. Every price or
// stock change is journaled so the dashboard can show who touched what.
type Service struct {
	books  ports.Repository
	logger *slog.Logger
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithLogger overrides the default process logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(books ports.Repository, opts ...Option) *Service {
	s := &Service{books: books, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// GetBook fetches a single book.
func (s *Service) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrBookNotFound, id)
		}
		return nil, err
	}
	return book, nil
}

// UpdatePrice sets a new list price and journals the change. A concurrent
// writer surfaces as ports.ErrVersionConflict; the caller decides whether
// to retry.
func (s *Service) UpdatePrice(ctx context.Context, bookID int64, price float64, adminUser string) (*domain.Book, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := book.Reprice(price, adminUser); err != nil {
		return nil, err
	}
	return s.persist(ctx, book)
}

// RestockBook adds inventory and journals the change.
func (s *Service) RestockBook(ctx context.Context, bookID int64, quantity int32, adminUser string) (*domain.Book, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := book.Restock(quantity, adminUser); err != nil {
		return nil, err
	}
	return s.persist(ctx, book)
}

func (s *Service) persist(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	saved, err := s.books.Save(ctx, book)
	if err != nil {
		return nil, err
	}
	update := domain.PriceUpdate{
		BookID:    saved.ID,
		Title:     saved.Title,
		Price:     saved.Price,
		UpdatedBy: saved.UpdatedBy,
		UpdatedOn: saved.UpdatedOn,
	}
	if err := s.books.RecordUpdate(ctx, update); err != nil {
		// The book change is already committed; a lost journal row only
		// degrades the dashboard.
		s.logger.Warn("failed to journal inventory update",
			slog.Int64("book.id", saved.ID), slog.String("error", err.Error()))
	}
	return saved, nil
}

// RecentUpdates lists the latest inventory touches made by adminUser.
func (s *Service) RecentUpdates(ctx context.Context, adminUser string) ([]domain.PriceUpdate, error) {
	return s.books.RecentUpdates(ctx, ports.UpdatesFilter{
		AdminUser: adminUser,
		Limit:     dashboardLimit,
	})
}

// RecentGlobalUpdates lists the latest touches made by everyone else.
func (s *Service) RecentGlobalUpdates(ctx context.Context, adminUser string) ([]domain.PriceUpdate, error) {
	return s.books.RecentUpdates(ctx, ports.UpdatesFilter{
		AdminUser: adminUser,
		Exclude:   true,
		Limit:     dashboardLimit,
	})
}

var _ ports.Service = (*Service)(nil)
