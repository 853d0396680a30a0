package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// statusTransitions lists the allowed next states for each status.
// DELIVERED and CANCELLED are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// Valid reports whether s is a defined status value
func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether an order in status s may move to target.
// Re-setting the current status is always allowed.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s == target {
		return s.Valid()
	}
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Order represents a placed purchase order and its line items
type Order struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ClientID   uuid.UUID       `json:"client_id" db:"client_id"`
	Status     OrderStatus     `json:"status" db:"status"`
	TotalPrice decimal.Decimal `json:"total_price" db:"total_price"`
	Items      []OrderItem     `json:"items"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// OrderItem is a single line of an order. Price is the product's unit price
// multiplied by quantity, captured at placement time. LineNo preserves the
// position the caller gave the item within its order.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"order_id" db:"order_id"`
	LineNo    int             `json:"line_no" db:"line_no"`
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
}
