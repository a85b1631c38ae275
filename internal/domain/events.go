package domain

import "time"

const (
	EventOrderCreated = "order_created"
	EventItemsAdded   = "items_added"
)

// OrderEvent is published to the order topic whenever the diner-facing
// flow changes an order.
type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     int64     `json:"order_id"`
	StoreID     int64     `json:"store_id"`
	TableID     int64     `json:"table_id"`
	TotalAmount float64   `json:"total_amount"`
	Timestamp   time.Time `json:"timestamp"`
}
