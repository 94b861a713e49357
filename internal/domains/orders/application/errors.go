package application

import (
	"errors"
)

var (
	// ErrCartNotFound signals checkout referenced an unknown shopping cart.
	ErrCartNotFound = errors.New("shopping cart not found")
	// ErrCustomerNotFound signals the identity subject has no customer record.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrOrderNotFound signals the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyPlacement signals no cart item could be converted, so no order
	// was created.
	ErrEmptyPlacement = errors.New("no items available to place")
	// ErrPlacementFailed wraps any failure inside the placement commit scope;
	// when it surfaces, the whole unit of work has been rolled back.
	ErrPlacementFailed = errors.New("order placement failed")
)
