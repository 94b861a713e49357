package domain

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrItemNotFound    = errors.New("cart item not found")
)

// CartItem is a book reserved in a shopping cart. Price is the listing price
// at the time the item was added.
type CartItem struct {
	ID       int64
	BookID   int64
	Price    float64
	Quantity int32
}

// Cart owns its items until checkout converts them to order lines; converted
// items are removed, skipped ones stay behind.
type Cart struct {
	ID          string
	CustomerSub string
	Items       []CartItem
}

// NewCart starts an empty cart under the given correlation id.
func NewCart(id, customerSub string) *Cart {
	return &Cart{ID: id, CustomerSub: customerSub}
}

// AddItem appends a book to the cart, merging quantity onto an existing line
// for the same book.
func (c *Cart) AddItem(bookID int64, price float64, quantity int32) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			c.Items[i].Quantity += quantity
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{BookID: bookID, Price: price, Quantity: quantity})
	return nil
}

// RemoveItem drops a line by item id.
func (c *Cart) RemoveItem(itemID int64) error {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}
