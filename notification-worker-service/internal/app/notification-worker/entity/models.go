package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Типы событий топика shop_events
const (
	EventOrderCreated       = "ORDER_CREATED"
	EventOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventUserRegistered     = "USER_REGISTERED"
)

// ShopEvent - событие витрины, на которое отвечаем письмом
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

// LowStockProduct - товар с остатком ниже порога
type LowStockProduct struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Stock int                `bson:"stock"`
}

// GetRedisKeyForEvent возвращает ключ Redis для обработанного события
func GetRedisKeyForEvent(eventID string) string {
	return "processed_event:" + eventID
}
