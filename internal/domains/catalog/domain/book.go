package domain

import (
	"errors"
	"time"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidPrice      = errors.New("price must be greater than zero")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
)

// Book is the catalog aggregate carrying the sellable inventory. Version is
// the optimistic concurrency token guarding concurrent stock decrements.
type Book struct {
	ID         int64
	Title      string
	Author     string
	ISBN       string
	Genres     []string
	Price      float64
	StockLevel int32
	Version    int64
	UpdatedBy  string
	UpdatedOn  time.Time
}

// InStock reports whether the requested quantity can be fulfilled.
func (b *Book) InStock(quantity int32) bool {
	return quantity > 0 && b.StockLevel >= quantity
}

// ReduceStock decrements the stock level for a sale.
func (b *Book) ReduceStock(quantity int32) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if b.StockLevel < quantity {
		return ErrInsufficientStock
	}
	b.StockLevel -= quantity
	return nil
}

// Restock adds inventory and records who touched it.
func (b *Book) Restock(quantity int32, updatedBy string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	b.StockLevel += quantity
	b.touch(updatedBy)
	return nil
}

// Reprice sets a new list price and records who touched it.
func (b *Book) Reprice(price float64, updatedBy string) error {
	if price <= 0 {
		return ErrInvalidPrice
	}
	b.Price = price
	b.touch(updatedBy)
	return nil
}

func (b *Book) touch(updatedBy string) {
	b.UpdatedBy = updatedBy
	b.UpdatedOn = time.Now().UTC()
}

// PriceUpdate is the dashboard projection of a single inventory touch. It is
// journaled on every reprice/restock so the back office can show the latest
// activity per admin.
type PriceUpdate struct {
	ID        int64
	BookID    int64
	Title     string
	Price     float64
	UpdatedBy string
	UpdatedOn time.Time
}
