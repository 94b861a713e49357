package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/secondspine/bookstore/internal/domains/orders/domain"
	"github.com/secondspine/bookstore/internal/domains/orders/ports"
	platformpostgres "github.com/secondspine/bookstore/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Writes join the
// ambient transaction when one travels on the context.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &orderItemRecord{})
	}
	return repo
}

type orderRecord struct {
	ID           int64             `gorm:"primaryKey;column:id"`
	CustomerID   int64             `gorm:"column:customer_id;index"`
	AddressID    int64             `gorm:"column:address_id"`
	Status       int64             `gorm:"column:status;index"`
	DeliveryDate string            `gorm:"column:delivery_date;type:varchar(16)"`
	Subtotal     float64           `gorm:"column:subtotal"`
	UpdatedOn    time.Time         `gorm:"column:updated_on"`
	CreatedAt    time.Time         `gorm:"column:created_at;index"`
	Items        []orderItemRecord `gorm:"foreignKey:OrderID"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID       int64   `gorm:"primaryKey;column:id"`
	OrderID  int64   `gorm:"column:order_id;index"`
	BookID   int64   `gorm:"column:book_id"`
	Title    string  `gorm:"column:title"`
	Price    float64 `gorm:"column:price"`
	Quantity int32   `gorm:"column:quantity"`
}

func (orderItemRecord) TableName() string { return "order_items" }

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

// Save inserts the order on first write and rewrites its fields and item set
// afterwards.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	db := platformpostgres.DB(ctx, r.db)
	record := toRecord(order)
	if record.ID == 0 {
		if err := db.Create(&record).Error; err != nil {
			return nil, err
		}
		return record.toDomain(), nil
	}
	if err := db.Model(&orderRecord{ID: record.ID}).Updates(map[string]any{
		"customer_id":   record.CustomerID,
		"address_id":    record.AddressID,
		"status":        record.Status,
		"delivery_date": record.DeliveryDate,
		"subtotal":      record.Subtotal,
		"updated_on":    record.UpdatedOn,
	}).Error; err != nil {
		return nil, err
	}
	if err := db.Where("order_id = ?", record.ID).Delete(&orderItemRecord{}).Error; err != nil {
		return nil, err
	}
	for i := range record.Items {
		record.Items[i].ID = 0
		record.Items[i].OrderID = record.ID
	}
	if len(record.Items) > 0 {
		if err := db.Create(&record.Items).Error; err != nil {
			return nil, err
		}
	}
	return record.toDomain(), nil
}

// GetByID fetches an order with its items.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := platformpostgres.DB(ctx, r.db).Preload("Items").First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetForCustomer fetches an order only when the customer owns it.
func (r *Repository) GetForCustomer(ctx context.Context, id, customerID int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := platformpostgres.DB(ctx, r.db).Preload("Items").
		First(&record, "id = ? AND customer_id = ?", id, customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListByStatuses returns all orders in any of the given statuses.
func (r *Repository) ListByStatuses(ctx context.Context, statuses ...domain.Status) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(statuses))
	for _, s := range statuses {
		ids = append(ids, int64(s))
	}
	var records []orderRecord
	err := platformpostgres.DB(ctx, r.db).Preload("Items").
		Where("status IN ?", ids).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

// ListByCustomer returns a customer's order history, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	err := platformpostgres.DB(ctx, r.db).Preload("Items").
		Where("customer_id = ?", customerID).Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

// List pages through orders for the admin listing.
func (r *Repository) List(ctx context.Context, filters ports.Filters, pageIndex, pageSize int) ([]*domain.Order, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	db := platformpostgres.DB(ctx, r.db).Model(&orderRecord{})
	if filters.Status != nil {
		db = db.Where("status = ?", int64(*filters.Status))
	}
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []orderRecord
	err := db.Preload("Items").Order("created_at DESC").
		Offset((pageIndex - 1) * pageSize).Limit(pageSize).Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return toDomainList(records), total, nil
}

// Statistics aggregates counts per status.
func (r *Repository) Statistics(ctx context.Context) (domain.OrderStatistics, error) {
	if err := r.ensureDB(); err != nil {
		return domain.OrderStatistics{}, err
	}
	var rows []struct {
		Status int64
		Count  int64
	}
	err := platformpostgres.DB(ctx, r.db).Model(&orderRecord{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error
	if err != nil {
		return domain.OrderStatistics{}, err
	}
	var stats domain.OrderStatistics
	for _, row := range rows {
		stats.Total += row.Count
		switch domain.Status(row.Status) {
		case domain.StatusPending:
			stats.Pending = row.Count
		case domain.StatusDelayed:
			stats.Delayed = row.Count
		case domain.StatusCancelled:
			stats.Cancelled = row.Count
		}
	}
	return stats, nil
}

func toRecord(order *domain.Order) orderRecord {
	record := orderRecord{
		ID:           order.ID,
		CustomerID:   order.CustomerID,
		AddressID:    order.AddressID,
		Status:       int64(order.Status),
		DeliveryDate: order.DeliveryDate,
		Subtotal:     order.Subtotal,
		UpdatedOn:    order.UpdatedOn,
	}
	for _, item := range order.Items {
		record.Items = append(record.Items, orderItemRecord{
			OrderID:  order.ID,
			BookID:   item.BookID,
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return record
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:           r.ID,
		CustomerID:   r.CustomerID,
		AddressID:    r.AddressID,
		Status:       domain.Status(r.Status),
		DeliveryDate: r.DeliveryDate,
		Subtotal:     r.Subtotal,
		UpdatedOn:    r.UpdatedOn,
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.OrderItem{
			BookID:   item.BookID,
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return order
}

func toDomainList(records []orderRecord) []*domain.Order {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders
}
