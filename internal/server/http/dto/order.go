package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FlexString accepts a JSON string or number, as tills send table numbers either way.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(strings.TrimSpace(str))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = FlexString(num.String())
	return nil
}

// CustomerDetails is the walk-in customer block.
type CustomerDetails struct {
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	Guests int    `json:"guests,omitempty"`
}

// OrderItemRequest is a single cart line as submitted by the till.
type OrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	Variant   string          `json:"variant"`
}

// Bills carries the till's computed amounts; Total is authoritative.
type Bills struct {
	Total        *decimal.Decimal `json:"total"`
	Tax          *decimal.Decimal `json:"tax,omitempty"`
	TotalWithTax *decimal.Decimal `json:"totalWithTax,omitempty"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	OrderID       string             `json:"order_id"`
	Customer      CustomerDetails    `json:"customerDetails"`
	Items         []OrderItemRequest `json:"items"`
	Bills         *Bills             `json:"bills"`
	TotalAmount   *decimal.Decimal   `json:"total_amount"`
	Table         FlexString         `json:"table"`
	PaymentMethod string             `json:"paymentMethod"`
}

// Total resolves bills.total, falling back to the flat total_amount field.
func (r CreateOrderRequest) Total() *decimal.Decimal {
	if r.Bills != nil && r.Bills.Total != nil {
		return r.Bills.Total
	}
	return r.TotalAmount
}

// UpdateStatusRequest changes the financial status of an order.
type UpdateStatusRequest struct {
	Status      string `json:"status"`
	OrderStatus string `json:"orderStatus"`
}

// Value returns whichever status field was supplied.
func (r UpdateStatusRequest) Value() string {
	if r.Status != "" {
		return r.Status
	}
	return r.OrderStatus
}

// OrderItemResponse is a stored cart line.
type OrderItemResponse struct {
	ProductID string  `json:"product_id,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"qty"`
	Price     float64 `json:"price"`
	Variant   string  `json:"variant,omitempty"`
}

// OrderResponse is a stored order.
type OrderResponse struct {
	ID            string              `json:"_id"`
	OrderID       string              `json:"order_id"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   float64             `json:"total_amount"`
	Status        string              `json:"status"`
	Timestamp     time.Time           `json:"timestamp"`
	Customer      CustomerDetails     `json:"customerDetails"`
	Table         string              `json:"table"`
	PaymentMethod string              `json:"paymentMethod"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// DeleteAllResponse reports how many orders a bulk delete removed.
type DeleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}
