package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/secondspine/bookstore/internal/domains/customers/domain"
	"github.com/secondspine/bookstore/internal/domains/customers/ports"
	platformpostgres "github.com/secondspine/bookstore/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists customers in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&customerRecord{}, &addressRecord{})
	}
	return repo
}

type customerRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	Sub       string          `gorm:"column:sub;uniqueIndex"`
	Name      string          `gorm:"column:name"`
	Email     string          `gorm:"column:email"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
	Addresses []addressRecord `gorm:"foreignKey:CustomerID"`
}

func (customerRecord) TableName() string { return "customers" }

type addressRecord struct {
	ID         int64  `gorm:"primaryKey;column:id"`
	CustomerID int64  `gorm:"column:customer_id;index"`
	Line1      string `gorm:"column:line1"`
	Line2      string `gorm:"column:line2"`
	City       string `gorm:"column:city"`
	Country    string `gorm:"column:country"`
	PostCode   string `gorm:"column:post_code"`
}

func (addressRecord) TableName() string { return "customer_addresses" }

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres customer repository not configured")
	}
	return nil
}

// GetBySub fetches a customer by identity subject, with addresses.
func (r *Repository) GetBySub(ctx context.Context, sub string) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
	err := platformpostgres.DB(ctx, r.db).Preload("Addresses").First(&record, "sub = ?", sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Save upserts a customer keyed on the identity subject.
func (r *Repository) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	db := platformpostgres.DB(ctx, r.db)
	record := customerRecord{ID: customer.ID, Sub: customer.Sub, Name: customer.Name, Email: customer.Email}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sub"}},
		DoUpdates: clause.Assignments(map[string]any{"name": record.Name, "email": record.Email, "updated_at": gorm.Expr("NOW()")}),
	}).Omit("Addresses").Create(&record).Error; err != nil {
		return nil, err
	}
	if err := db.Where("customer_id = ?", record.ID).Delete(&addressRecord{}).Error; err != nil {
		return nil, err
	}
	for _, addr := range customer.Addresses {
		row := addressRecord{
			ID:         addr.ID,
			CustomerID: record.ID,
			Line1:      addr.Line1,
			Line2:      addr.Line2,
			City:       addr.City,
			Country:    addr.Country,
			PostCode:   addr.PostCode,
		}
		if err := db.Save(&row).Error; err != nil {
			return nil, err
		}
	}
	return r.GetBySub(ctx, customer.Sub)
}

func (r customerRecord) toDomain() *domain.Customer {
	customer := &domain.Customer{ID: r.ID, Sub: r.Sub, Name: r.Name, Email: r.Email}
	for _, addr := range r.Addresses {
		customer.Addresses = append(customer.Addresses, domain.Address{
			ID:       addr.ID,
			Line1:    addr.Line1,
			Line2:    addr.Line2,
			City:     addr.City,
			Country:  addr.Country,
			PostCode: addr.PostCode,
		})
	}
	return customer
}
