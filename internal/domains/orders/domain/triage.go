package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// triageWindowDays bounds the band around the delivery date in which an
// order is considered actionable on the dashboard.
const triageWindowDays = 5

var (
	ErrTriage                = errors.New("order triage failed")
	ErrMalformedDeliveryDate = errors.New("malformed delivery date")
)

// TriagedOrder pairs an order with its computed dashboard severity. It is a
// transient projection, never persisted.
type TriagedOrder struct {
	Order    *Order
	Severity int
	Due      time.Time
}

// Severity computes the dashboard priority for a status and a signed
// day-difference. For pending orders the difference is days until delivery
// (non-positive means already past due); for delayed orders it is days
// overdue. Any other status carries no priority.
func Severity(status Status, diffDays float64) int {
	switch status {
	case StatusPending:
		if diffDays <= 0 {
			return 2
		}
		return 1
	case StatusDelayed:
		return 2
	default:
		return 0
	}
}

// TriageOrders scans orders already restricted to pending or delayed status
// and keeps the ones inside the actionable delivery window:
//
//   - pending orders due within triageWindowDays (including already overdue),
//   - delayed orders strictly overdue but by less than triageWindowDays.
//
// Delayed orders overdue five days or more fall off the dashboard on purpose;
// the view stays focused on recently actionable items. A malformed delivery
// date on any order fails the whole batch: no partial result is returned.
// The result carries no ordering guarantee; callers sort via SortTriaged.
func TriageOrders(orders []*Order, now time.Time) ([]TriagedOrder, error) {
	triaged := make([]TriagedOrder, 0, len(orders))
	for _, order := range orders {
		due, err := order.DeliveryTime()
		if err != nil {
			return nil, fmt.Errorf("%w: %w: order %d: %q", ErrTriage, ErrMalformedDeliveryDate, order.ID, order.DeliveryDate)
		}
		switch order.Status {
		case StatusPending:
			diff := due.Sub(now).Hours() / 24
			if diff <= triageWindowDays {
				triaged = append(triaged, TriagedOrder{Order: order, Severity: Severity(StatusPending, diff), Due: due})
			}
		case StatusDelayed:
			diff := now.Sub(due).Hours() / 24
			if diff > 0 && diff < triageWindowDays {
				triaged = append(triaged, TriagedOrder{Order: order, Severity: Severity(StatusDelayed, diff), Due: due})
			}
		}
	}
	return triaged, nil
}

// Sort keys accepted by SortTriaged.
const (
	SortPrice     = "price"
	SortPriceDesc = "price_desc"
	SortDate      = "date"
	SortDateDesc  = "date_desc"
)

// SortTriaged reorders a triaged list by subtotal or delivery date. An
// unrecognized key is a soft no-op: the input is returned unchanged rather
// than raising an error. The input slice is never mutated.
func SortTriaged(orders []TriagedOrder, key string) []TriagedOrder {
	var less func(a, b TriagedOrder) bool
	switch key {
	case SortPrice:
		less = func(a, b TriagedOrder) bool { return a.Order.Subtotal < b.Order.Subtotal }
	case SortPriceDesc:
		less = func(a, b TriagedOrder) bool { return a.Order.Subtotal > b.Order.Subtotal }
	case SortDate:
		less = func(a, b TriagedOrder) bool { return a.Due.Before(b.Due) }
	case SortDateDesc:
		less = func(a, b TriagedOrder) bool { return b.Due.Before(a.Due) }
	default:
		return orders
	}
	sorted := append([]TriagedOrder(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted
}
