package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderSummary is the list projection of an order.
type OrderSummary struct {
	ID          uuid.UUID       `json:"id"`
	ResellerID  uuid.UUID       `json:"resellerId"`
	CustomerID  uuid.UUID       `json:"customerId"`
	StatusID    uuid.UUID       `json:"statusId"`
	StatusName  string          `json:"statusName"`
	ItemCount   int             `json:"itemCount"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	CreatedDate time.Time       `json:"createdDate"`
}

// OrderDetail is the single-order projection including every item line.
type OrderDetail struct {
	ID          uuid.UUID         `json:"id"`
	ResellerID  uuid.UUID         `json:"resellerId"`
	CustomerID  uuid.UUID         `json:"customerId"`
	StatusID    uuid.UUID         `json:"statusId"`
	StatusName  string            `json:"statusName"`
	CreatedDate time.Time         `json:"createdDate"`
	TotalCost   decimal.Decimal   `json:"totalCost"`
	TotalPrice  decimal.Decimal   `json:"totalPrice"`
	Items       []OrderItemDetail `json:"items"`
}

type OrderItemDetail struct {
	ID          uuid.UUID           `json:"id"`
	OrderID     uuid.UUID           `json:"orderId"`
	ServiceID   uuid.UUID           `json:"serviceId"`
	ServiceName string              `json:"serviceName"`
	ProductID   uuid.UUID           `json:"productId"`
	ProductName string              `json:"productName"`
	UnitCost    decimal.NullDecimal `json:"unitCost"`
	UnitPrice   decimal.NullDecimal `json:"unitPrice"`
	TotalCost   decimal.Decimal     `json:"totalCost"`
	TotalPrice  decimal.Decimal     `json:"totalPrice"`
	Quantity    int                 `json:"quantity"`
}

type MonthProfit struct {
	Month  int             `json:"month"`
	Profit decimal.Decimal `json:"profit"`
}

// CreateOrder is the already-validated input for persisting a new order.
type CreateOrder struct {
	ResellerID uuid.UUID
	CustomerID uuid.UUID
	Items      []CreateOrderItem
}

type CreateOrderItem struct {
	ServiceID uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}
