package rest

import (
	"errors"

	cartsapp "github.com/secondspine/bookstore/internal/domains/carts/application"
	cartsdomain "github.com/secondspine/bookstore/internal/domains/carts/domain"
	catalogapp "github.com/secondspine/bookstore/internal/domains/catalog/application"
	catalogdomain "github.com/secondspine/bookstore/internal/domains/catalog/domain"
	catalogports "github.com/secondspine/bookstore/internal/domains/catalog/ports"
	customersapp "github.com/secondspine/bookstore/internal/domains/customers/application"
	ordersapp "github.com/secondspine/bookstore/internal/domains/orders/application"
	ordersdomain "github.com/secondspine/bookstore/internal/domains/orders/domain"
	sharederrors "github.com/secondspine/bookstore/internal/shared/errors"
)

// newResponder builds the problem responder with this API's error taxonomy.
func newResponder() *sharederrors.Responder {
	return sharederrors.NewResponder("", mapApplicationError)
}

// mapApplicationError translates application and domain sentinels into
// problem responses. Placement failures are unwrapped first so a stock
// conflict inside a checkout still surfaces as a 409.
func mapApplicationError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersapp.ErrCartNotFound),
		errors.Is(err, ordersapp.ErrCustomerNotFound),
		errors.Is(err, ordersapp.ErrOrderNotFound),
		errors.Is(err, cartsapp.ErrCartNotFound),
		errors.Is(err, cartsapp.ErrBookNotFound),
		errors.Is(err, catalogapp.ErrBookNotFound),
		errors.Is(err, customersapp.ErrCustomerNotFound):
		return sharederrors.ErrNotFound.WithDetail(err.Error()), true

	case errors.Is(err, ordersapp.ErrEmptyPlacement):
		return sharederrors.ErrUnprocessable.WithDetail("no cart item is in stock"), true

	case errors.Is(err, catalogports.ErrVersionConflict):
		return sharederrors.ErrConflict.WithDetail("the book was updated concurrently"), true

	case errors.Is(err, ordersdomain.ErrInvalidStatus),
		errors.Is(err, ordersdomain.ErrInvalidQuantity),
		errors.Is(err, cartsdomain.ErrInvalidQuantity),
		errors.Is(err, cartsdomain.ErrItemNotFound),
		errors.Is(err, catalogdomain.ErrInvalidPrice),
		errors.Is(err, catalogdomain.ErrInvalidQuantity):
		return sharederrors.ErrValidation.WithDetail(err.Error()), true

	case errors.Is(err, ordersdomain.ErrTriage):
		return sharederrors.ErrInternal.WithDetail(err.Error()), true
	}
	return sharederrors.ProblemDetail{}, false
}
