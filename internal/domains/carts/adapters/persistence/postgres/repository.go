package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/secondspine/bookstore/internal/domains/carts/domain"
	"github.com/secondspine/bookstore/internal/domains/carts/ports"
	platformpostgres "github.com/secondspine/bookstore/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists shopping carts in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&cartRecord{}, &cartItemRecord{})
	}
	return repo
}

type cartRecord struct {
	ID          string           `gorm:"primaryKey;column:id;type:varchar(64)"`
	CustomerSub string           `gorm:"column:customer_sub;index"`
	CreatedAt   time.Time        `gorm:"column:created_at"`
	UpdatedAt   time.Time        `gorm:"column:updated_at"`
	Items       []cartItemRecord `gorm:"foreignKey:CartID"`
}

func (cartRecord) TableName() string { return "shopping_carts" }

type cartItemRecord struct {
	ID       int64   `gorm:"primaryKey;column:id"`
	CartID   string  `gorm:"column:cart_id;index;type:varchar(64)"`
	BookID   int64   `gorm:"column:book_id"`
	Price    float64 `gorm:"column:price"`
	Quantity int32   `gorm:"column:quantity"`
}

func (cartItemRecord) TableName() string { return "shopping_cart_items" }

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres cart repository not configured")
	}
	return nil
}

// Get fetches a cart with its items.
func (r *Repository) Get(ctx context.Context, id string) (*domain.Cart, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record cartRecord
	err := platformpostgres.DB(ctx, r.db).Preload("Items").First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Save upserts the cart row and reconciles the stored item set with the
// aggregate's: removed lines are deleted, remaining lines upserted.
func (r *Repository) Save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errors.New("cart is nil")
	}
	db := platformpostgres.DB(ctx, r.db)
	row := cartRecord{ID: cart.ID, CustomerSub: cart.CustomerSub}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{"customer_sub": row.CustomerSub, "updated_at": gorm.Expr("NOW()")}),
	}).Omit("Items").Create(&row).Error; err != nil {
		return nil, err
	}

	keep := make([]int64, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ID != 0 {
			keep = append(keep, item.ID)
		}
	}
	prune := db.Where("cart_id = ?", cart.ID)
	if len(keep) > 0 {
		prune = prune.Where("id NOT IN ?", keep)
	}
	if err := prune.Delete(&cartItemRecord{}).Error; err != nil {
		return nil, err
	}

	for i := range cart.Items {
		item := cartItemRecord{
			ID:       cart.Items[i].ID,
			CartID:   cart.ID,
			BookID:   cart.Items[i].BookID,
			Price:    cart.Items[i].Price,
			Quantity: cart.Items[i].Quantity,
		}
		if err := db.Save(&item).Error; err != nil {
			return nil, err
		}
		cart.Items[i].ID = item.ID
	}
	return r.Get(ctx, cart.ID)
}

func (r cartRecord) toDomain() *domain.Cart {
	cart := &domain.Cart{ID: r.ID, CustomerSub: r.CustomerSub}
	for _, item := range r.Items {
		cart.Items = append(cart.Items, domain.CartItem{
			ID:       item.ID,
			BookID:   item.BookID,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return cart
}
