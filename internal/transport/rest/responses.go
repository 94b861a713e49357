package rest

import (
	"fmt"
	"time"

	cartsdomain "github.com/secondspine/bookstore/internal/domains/carts/domain"
	catalogdomain "github.com/secondspine/bookstore/internal/domains/catalog/domain"
	customersdomain "github.com/secondspine/bookstore/internal/domains/customers/domain"
	ordersdomain "github.com/secondspine/bookstore/internal/domains/orders/domain"
)

// OrderItem is the transport shape of an order line.
type OrderItem struct {
	BookID   int64   `json:"bookId"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int32   `json:"quantity"`
}

// Order is the transport shape of a purchase order.
type Order struct {
	ID           int64       `json:"id"`
	CustomerID   int64       `json:"customerId"`
	AddressID    int64       `json:"addressId"`
	Items        []OrderItem `json:"items"`
	Status       string      `json:"status"`
	DeliveryDate string      `json:"deliveryDate,omitempty"`
	Subtotal     float64     `json:"subtotal"`
	UpdatedOn    time.Time   `json:"updatedOn"`
}

func fromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := make([]OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItem{
			BookID:   item.BookID,
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return Order{
		ID:           order.ID,
		CustomerID:   order.CustomerID,
		AddressID:    order.AddressID,
		Items:        items,
		Status:       order.Status.String(),
		DeliveryDate: order.DeliveryDate,
		Subtotal:     order.Subtotal,
		UpdatedOn:    order.UpdatedOn,
	}
}

func fromDomainOrders(orders []*ordersdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, fromDomainOrder(order))
	}
	return out
}

// TriagedOrder is the dashboard shape of a prioritised order.
type TriagedOrder struct {
	Order    Order     `json:"order"`
	Severity int       `json:"severity"`
	Due      time.Time `json:"due"`
}

func fromDomainTriaged(triaged []ordersdomain.TriagedOrder) []TriagedOrder {
	out := make([]TriagedOrder, 0, len(triaged))
	for _, entry := range triaged {
		out = append(out, TriagedOrder{
			Order:    fromDomainOrder(entry.Order),
			Severity: entry.Severity,
			Due:      entry.Due,
		})
	}
	return out
}

// toDomainStatus parses a lifecycle label from a request body.
func toDomainStatus(label string) (ordersdomain.Status, error) {
	for _, status := range []ordersdomain.Status{
		ordersdomain.StatusCreated,
		ordersdomain.StatusPending,
		ordersdomain.StatusDelayed,
		ordersdomain.StatusCancelled,
		ordersdomain.StatusCompleted,
	} {
		if status.String() == label {
			return status, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ordersdomain.ErrInvalidStatus, label)
}

// Book is the transport shape of a catalog entry.
type Book struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	ISBN       string    `json:"isbn"`
	Genres     []string  `json:"genres,omitempty"`
	Price      float64   `json:"price"`
	StockLevel int32     `json:"stockLevel"`
	UpdatedBy  string    `json:"updatedBy,omitempty"`
	UpdatedOn  time.Time `json:"updatedOn"`
}

func fromDomainBook(book *catalogdomain.Book) Book {
	if book == nil {
		return Book{}
	}
	return Book{
		ID:         book.ID,
		Title:      book.Title,
		Author:     book.Author,
		ISBN:       book.ISBN,
		Genres:     book.Genres,
		Price:      book.Price,
		StockLevel: book.StockLevel,
		UpdatedBy:  book.UpdatedBy,
		UpdatedOn:  book.UpdatedOn,
	}
}

// InventoryUpdate is the dashboard shape of a journaled catalog touch.
type InventoryUpdate struct {
	BookID    int64     `json:"bookId"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	UpdatedBy string    `json:"updatedBy"`
	UpdatedOn time.Time `json:"updatedOn"`
}

func fromDomainUpdates(updates []catalogdomain.PriceUpdate) []InventoryUpdate {
	out := make([]InventoryUpdate, 0, len(updates))
	for _, update := range updates {
		out = append(out, InventoryUpdate{
			BookID:    update.BookID,
			Title:     update.Title,
			Price:     update.Price,
			UpdatedBy: update.UpdatedBy,
			UpdatedOn: update.UpdatedOn,
		})
	}
	return out
}

// CartItem is the transport shape of a reserved book.
type CartItem struct {
	ID       int64   `json:"id"`
	BookID   int64   `json:"bookId"`
	Price    float64 `json:"price"`
	Quantity int32   `json:"quantity"`
}

// Cart is the transport shape of a shopping cart.
type Cart struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"items"`
}

func fromDomainCart(cart *cartsdomain.Cart) Cart {
	if cart == nil {
		return Cart{}
	}
	items := make([]CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItem{
			ID:       item.ID,
			BookID:   item.BookID,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return Cart{ID: cart.ID, Items: items}
}

// Address is the transport shape of a delivery address.
type Address struct {
	ID       int64  `json:"id"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	Country  string `json:"country"`
	PostCode string `json:"postCode"`
}

func fromDomainAddresses(addresses []customersdomain.Address) []Address {
	out := make([]Address, 0, len(addresses))
	for _, address := range addresses {
		out = append(out, Address{
			ID:       address.ID,
			Line1:    address.Line1,
			Line2:    address.Line2,
			City:     address.City,
			Country:  address.Country,
			PostCode: address.PostCode,
		})
	}
	return out
}
