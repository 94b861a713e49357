package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&bookRecord{},
		&priceUpdateRecord{},
		&customerRecord{},
		&addressRecord{},
		&cartRecord{},
		&cartItemRecord{},
		&orderRecord{},
		&orderItemRecord{},
	)
}

// Book schema mirrors the catalog Postgres adapter.
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

// Customer schema mirrors the customers Postgres adapter.
type customerRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Sub       string    `gorm:"column:sub;uniqueIndex"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
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

// Cart schema mirrors the carts Postgres adapter.
type cartRecord struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	CustomerSub string    `gorm:"column:customer_sub;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
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

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	CustomerID   int64     `gorm:"column:customer_id;index"`
	AddressID    int64     `gorm:"column:address_id"`
	Status       int64     `gorm:"column:status;index"`
	DeliveryDate string    `gorm:"column:delivery_date;type:varchar(16)"`
	Subtotal     float64   `gorm:"column:subtotal"`
	UpdatedOn    time.Time `gorm:"column:updated_on"`
	CreatedAt    time.Time `gorm:"column:created_at;index"`
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
