package entity

import "time"

// Типы событий топика shop_events
const (
	EventOrderCreated       = "ORDER_CREATED"
	EventOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventUserRegistered     = "USER_REGISTERED"
)

// ShopEvent - событие для notification-worker.
// Email и Name покупателя передаются в событии, чтобы воркер не ходил в users.
type ShopEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	OrderID     string    `json:"order_id,omitempty"`
	OrderStatus string    `json:"order_status,omitempty"`
	TotalPrice  float64   `json:"total_price,omitempty"`
	ItemsCount  int       `json:"items_count,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
