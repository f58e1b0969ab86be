package models

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusOnProcess OrderStatus = "On Process"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
)

// rank orders the lifecycle. Unknown statuses rank -1.
func (s OrderStatus) rank() int {
	switch s {
	case OrderStatusOnProcess:
		return 0
	case OrderStatusShipped:
		return 1
	case OrderStatusDelivered:
		return 2
	}
	return -1
}

// Valid reports whether s is one of the known lifecycle statuses.
func (s OrderStatus) Valid() bool {
	return s.rank() >= 0
}

// IllegalTransitionError reports a rejected order status change.
type IllegalTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal order status transition %q -> %q", e.From, e.To)
}

// ValidateStatusTransition enforces the forward-only lifecycle
// On Process -> Shipped -> Delivered. Transitions may not skip a stage,
// repeat the current status, or move backward; Delivered is terminal.
func ValidateStatusTransition(from, to OrderStatus) error {
	if !from.Valid() || !to.Valid() || to.rank() != from.rank()+1 {
		return &IllegalTransitionError{From: from, To: to}
	}
	return nil
}

// OrderItem is a cart line frozen at checkout. Price is the unit price at
// purchase time; later catalog price changes never touch existing orders.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is created once per checkout. Everything except Status is immutable
// after creation; Status belongs to the admin workflow.
type Order struct {
	ID             string      `json:"id,omitempty"`
	UserID         string      `json:"userId"`
	Items          []OrderItem `json:"items"`
	AddressID      string      `json:"addressId"`
	Total          float64     `json:"total"`
	Status         OrderStatus `json:"status"`
	CreatedAt      time.Time   `json:"createdAt"`
	IdempotencyKey string      `json:"idempotencyKey,omitempty"`
}

// OrderTotal computes the sum of quantity x frozen unit price over lines.
func OrderTotal(items []OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
