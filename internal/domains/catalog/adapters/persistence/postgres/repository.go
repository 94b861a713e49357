package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/secondspine/bookstore/internal/domains/catalog/domain"
	"github.com/secondspine/bookstore/internal/domains/catalog/ports"
	platformpostgres "github.com/secondspine/bookstore/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists books and the inventory-update journal in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&bookRecord{}, &priceUpdateRecord{})
	}
	return repo
}

type bookRecord struct {
	ID         int64          `gorm:"primaryKey;column:id"`
	Title      string         `gorm:"column:title;index"`
	Author     string         `gorm:"column:author"`
	ISBN       string         `gorm:"column:isbn;index"`
	Genres     pq.StringArray `gorm:"column:genres;type:text[]"`
	Price      float64        `gorm:"column:price"`
	StockLevel int32          `gorm:"column:stock_level"`
	Version    int64          `gorm:"column:version"`
	UpdatedBy  string         `gorm:"column:updated_by"`
	UpdatedOn  time.Time      `gorm:"column:updated_on"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
}

func (bookRecord) TableName() string { return "books" }

type priceUpdateRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	BookID    int64     `gorm:"column:book_id;index"`
	Title     string    `gorm:"column:title"`
	Price     float64   `gorm:"column:price"`
	UpdatedBy string    `gorm:"column:updated_by;index"`
	UpdatedOn time.Time `gorm:"column:updated_on;index"`
}

func (priceUpdateRecord) TableName() string { return "price_updates" }

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

// GetByID fetches a book by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record bookRecord
	if err := platformpostgres.DB(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Save inserts the book or, for an existing one, updates it guarded by the
// optimistic version token. A stale token yields ErrVersionConflict.
func (r *Repository) Save(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if book == nil {
		return nil, errors.New("book is nil")
	}
	db := platformpostgres.DB(ctx, r.db)
	record := toRecord(book)
	if record.ID == 0 {
		record.Version = 1
		if err := db.Create(&record).Error; err != nil {
			return nil, err
		}
		return record.toDomain(), nil
	}
	result := db.Model(&bookRecord{}).
		Where("id = ? AND version = ?", record.ID, record.Version).
		Updates(map[string]any{
			"title":       record.Title,
			"author":      record.Author,
			"isbn":        record.ISBN,
			"genres":      record.Genres,
			"price":       record.Price,
			"stock_level": record.StockLevel,
			"updated_by":  record.UpdatedBy,
			"updated_on":  record.UpdatedOn,
			"version":     record.Version + 1,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&bookRecord{}).Where("id = ?", record.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ports.ErrNotFound
		}
		return nil, ports.ErrVersionConflict
	}
	record.Version++
	return record.toDomain(), nil
}

// RecordUpdate journals an inventory touch for the back-office dashboard.
func (r *Repository) RecordUpdate(ctx context.Context, update domain.PriceUpdate) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	record := priceUpdateRecord{
		BookID:    update.BookID,
		Title:     update.Title,
		Price:     update.Price,
		UpdatedBy: update.UpdatedBy,
		UpdatedOn: update.UpdatedOn,
	}
	return platformpostgres.DB(ctx, r.db).Create(&record).Error
}

// RecentUpdates returns the latest journal entries by (or excluding) an admin.
func (r *Repository) RecentUpdates(ctx context.Context, filter ports.UpdatesFilter) ([]domain.PriceUpdate, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	db := platformpostgres.DB(ctx, r.db).Model(&priceUpdateRecord{})
	if filter.Exclude {
		db = db.Where("updated_by <> ?", filter.AdminUser)
	} else {
		db = db.Where("updated_by = ?", filter.AdminUser)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 5
	}
	var records []priceUpdateRecord
	if err := db.Order("updated_on DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	updates := make([]domain.PriceUpdate, 0, len(records))
	for _, record := range records {
		updates = append(updates, domain.PriceUpdate{
			ID:        record.ID,
			BookID:    record.BookID,
			Title:     record.Title,
			Price:     record.Price,
			UpdatedBy: record.UpdatedBy,
			UpdatedOn: record.UpdatedOn,
		})
	}
	return updates, nil
}

func toRecord(book *domain.Book) bookRecord {
	return bookRecord{
		ID:         book.ID,
		Title:      book.Title,
		Author:     book.Author,
		ISBN:       book.ISBN,
		Genres:     pq.StringArray(book.Genres),
		Price:      book.Price,
		StockLevel: book.StockLevel,
		Version:    book.Version,
		UpdatedBy:  book.UpdatedBy,
		UpdatedOn:  book.UpdatedOn,
	}
}

func (r bookRecord) toDomain() *domain.Book {
	return &domain.Book{
		ID:         r.ID,
		Title:      r.Title,
		Author:     r.Author,
		ISBN:       r.ISBN,
		Genres:     []string(r.Genres),
		Price:      r.Price,
		StockLevel: r.StockLevel,
		Version:    r.Version,
		UpdatedBy:  r.UpdatedBy,
		UpdatedOn:  r.UpdatedOn,
	}
}
