package domain

import "time"

// Event types published to the order events exchange.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the envelope published after an order is created or its
// status changes. Publishing is best-effort and never blocks checkout.
type OrderEvent struct {
	Type       string    `json:"type"`
	SessionID  string    `json:"session_id"`
	OrderID    int       `json:"order_id"`
	Login      string    `json:"login"`
	StoreID    int       `json:"store_id,omitempty"`
	Total      string    `json:"total,omitempty"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
