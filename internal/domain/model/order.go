package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus describes the financial state of a sale.
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// ParseOrderStatus accepts only the known status values.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch s := OrderStatus(raw); s {
	case OrderStatusCompleted, OrderStatusRefunded:
		return s, true
	default:
		return "", false
	}
}

const (
	DefaultCustomerName  = "Guest"
	DefaultTable         = "0"
	DefaultPaymentMethod = "Cash"
)

// Customer holds the walk-in details captured at the till.
type Customer struct {
	Name   string
	Phone  string
	Guests int
}

// Item is a single cart line of a sale.
type Item struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Variant   string
}

// Order is a recorded sale. OrderID is the business key used for idempotency.
type Order struct {
	ID            uuid.UUID
	OrderID       string
	Items         []Item
	TotalAmount   decimal.Decimal
	Status        OrderStatus
	Timestamp     time.Time
	Customer      Customer
	Table         string
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleInput is the unvalidated payload submitted at checkout.
type SaleInput struct {
	OrderID       string
	Customer      Customer
	Items         []Item
	Total         *decimal.Decimal
	Table         string
	PaymentMethod string
}
