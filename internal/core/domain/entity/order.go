package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderItem is one line of an order. The JSON tags define the transportable
// form the data layer writes to both backends (a jsonb column on the
// relational store, a cell on the spreadsheet).
type OrderItem struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// Order is immutable once created: there is no update operation in this
// layer. ID is backend-assigned on the relational store; on the spreadsheet
// store it is a synthesized ORD-<unix-ms> reference that is not stable
// across restarts and must not be treated as authoritative.
type Order struct {
	ID            string
	CustomerPhone string
	CustomerName  string
	Items         []OrderItem
	TotalAmount   decimal.Decimal
	Status        OrderStatus
	CreatedAt     time.Time
}

// OrderDraft carries caller-supplied order data into CreateOrder. The data
// layer performs no validation on it; that is the caller's job.
type OrderDraft struct {
	CustomerPhone string
	CustomerName  string
	Items         []OrderItem
	TotalAmount   decimal.Decimal
}
