package entity

import (
	"errors"
	"time"
)

var (
	ErrUnknownOrderStatus      = errors.New("unknown order status")
	ErrOrderAlreadyDelivered   = errors.New("order has already been delivered")
	ErrInvalidStatusTransition = errors.New("order status can only move forward")
)

// OrderStatus - статус заказа; допустимы только переходы вперед
// Processing -> Shipped -> Delivered
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
)

var orderStatusRank = map[OrderStatus]int{
	OrderStatusProcessing: 0,
	OrderStatusShipped:    1,
	OrderStatusDelivered:  2,
}

// IsValid проверяет что статус входит в известный набор
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// IsTerminal - после Delivered заказ больше не меняется
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered
}

// Transition переводит заказ в новый статус.
// Возвращает true только для первого принятого перехода: склад списывается один раз на заказ.
func (o *Order) Transition(target OrderStatus, now time.Time) (bool, error) {
	if !target.IsValid() {
		return false, ErrUnknownOrderStatus
	}
	if o.OrderStatus.IsTerminal() {
		return false, ErrOrderAlreadyDelivered
	}
	if orderStatusRank[target] <= orderStatusRank[o.OrderStatus] {
		return false, ErrInvalidStatusTransition
	}

	adjustStock := !o.StockAdjusted

	o.OrderStatus = target
	o.StockAdjusted = true
	if target.IsTerminal() {
		delivered := now
		o.DeliveredAt = &delivered
	}

	return adjustStock, nil
}
