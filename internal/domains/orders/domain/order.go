package domain

import (
	"errors"
	"time"
)

// Status enumerates order progression. The numeric values are load-bearing:
// the triage dashboard keys its severity policy off Pending and Delayed.
type Status int64

const (
	StatusCreated   Status = 1
	StatusPending   Status = 2
	StatusDelayed   Status = 3
	StatusCancelled Status = 4
	StatusCompleted Status = 5
)

// DeliveryDateLayout is the wire format for delivery dates on the aggregate.
const DeliveryDateLayout = "2006-01-02"

var (
	ErrInvalidStatus   = errors.New("order status is invalid")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrNoItems         = errors.New("order has no items")
)

// String returns the dashboard label for a status.
func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusPending:
		return "pending"
	case StatusDelayed:
		return "delayed"
	case StatusCancelled:
		return "cancelled"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Valid reports whether the status is a known lifecycle value.
func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusPending, StatusDelayed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// OrderItem is a line on an order. Price is captured at conversion time so
// later catalog updates do not rewrite history.
type OrderItem struct {
	BookID   int64
	Title    string
	Price    float64
	Quantity int32
}

// Order models the purchase order aggregate. It owns its items; the subtotal
// is maintained by AddItem and must equal the sum of quantity*price.
type Order struct {
	ID           int64
	CustomerID   int64
	AddressID    int64
	Items        []OrderItem
	Status       Status
	DeliveryDate string
	Subtotal     float64
	UpdatedOn    time.Time
}

// NewOrder builds an order bound to a customer and delivery address. Items
// are appended afterwards, during placement.
func NewOrder(customerID, addressID int64) *Order {
	return &Order{
		CustomerID: customerID,
		AddressID:  addressID,
		Status:     StatusPending,
		UpdatedOn:  time.Now().UTC(),
	}
}

// AddItem appends a line and keeps the subtotal consistent.
func (o *Order) AddItem(bookID int64, title string, price float64, quantity int32) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	o.Items = append(o.Items, OrderItem{BookID: bookID, Title: title, Price: price, Quantity: quantity})
	o.Subtotal += float64(quantity) * price
	return nil
}

// ScheduleDelivery sets the promised delivery date. Triage refuses orders
// without one, so placement must always schedule.
func (o *Order) ScheduleDelivery(due time.Time) {
	o.DeliveryDate = due.Format(DeliveryDateLayout)
}

// UpdateStatus transitions the order and stamps UpdatedOn.
func (o *Order) UpdateStatus(status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	o.Status = status
	o.UpdatedOn = time.Now().UTC()
	return nil
}

// Cancel marks the order cancelled.
func (o *Order) Cancel() {
	o.Status = StatusCancelled
	o.UpdatedOn = time.Now().UTC()
}

// Validate enforces the placed-order invariants.
func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// UnitsSold is the total number of copies across all lines.
func (o *Order) UnitsSold() int64 {
	var units int64
	for _, item := range o.Items {
		units += int64(item.Quantity)
	}
	return units
}

// SaleAmount is the monetary total across all lines.
func (o *Order) SaleAmount() float64 {
	var amount float64
	for _, item := range o.Items {
		amount += float64(item.Quantity) * item.Price
	}
	return amount
}

// DeliveryTime parses the delivery date. An unset or malformed date is an
// error; triage treats that as a batch-level failure rather than guessing.
func (o *Order) DeliveryTime() (time.Time, error) {
	return time.Parse(DeliveryDateLayout, o.DeliveryDate)
}
