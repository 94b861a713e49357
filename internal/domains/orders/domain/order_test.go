package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_AddItemKeepsSubtotalConsistent(t *testing.T) {
	order := NewOrder(7, 3)
	require.NoError(t, order.AddItem(1, "The Go Programming Language", 25.50, 2))
	require.NoError(t, order.AddItem(2, "Mastering Regular Expressions", 12.00, 1))

	assert.InDelta(t, 63.00, order.Subtotal, 1e-9)
	assert.InDelta(t, order.SaleAmount(), order.Subtotal, 1e-9)
	assert.Equal(t, int64(3), order.UnitsSold())
}

func TestOrder_AddItemRejectsNonPositiveQuantity(t *testing.T) {
	order := NewOrder(7, 3)
	require.ErrorIs(t, order.AddItem(1, "A Book", 5, 0), ErrInvalidQuantity)
	assert.Empty(t, order.Items)
	assert.Zero(t, order.Subtotal)
}

func TestOrder_ValidateRequiresItems(t *testing.T) {
	order := NewOrder(7, 3)
	require.ErrorIs(t, order.Validate(), ErrNoItems)

	require.NoError(t, order.AddItem(1, "A Book", 5, 1))
	require.NoError(t, order.Validate())
}

func TestOrder_UpdateStatus(t *testing.T) {
	order := NewOrder(7, 3)
	before := order.UpdatedOn

	require.NoError(t, order.UpdateStatus(StatusDelayed))
	assert.Equal(t, StatusDelayed, order.Status)
	assert.False(t, order.UpdatedOn.Before(before))

	require.ErrorIs(t, order.UpdateStatus(Status(42)), ErrInvalidStatus)
	assert.Equal(t, StatusDelayed, order.Status, "invalid transition leaves status untouched")
}

func TestOrder_Cancel(t *testing.T) {
	order := NewOrder(7, 3)
	order.Cancel()
	assert.Equal(t, StatusCancelled, order.Status)
}
