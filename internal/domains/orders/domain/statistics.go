package domain

// OrderStatistics summarises the order book for the admin landing page.
type OrderStatistics struct {
	Total     int64
	Pending   int64
	Delayed   int64
	Cancelled int64
}
