package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status_updated"
)

type OrderCreatedEvent struct {
	OrderID    uuid.UUID `json:"orderId"`
	ResellerID uuid.UUID `json:"resellerId"`
	CustomerID uuid.UUID `json:"customerId"`
	ItemCount  int       `json:"itemCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

type OrderStatusUpdatedEvent struct {
	OrderID    uuid.UUID `json:"orderId"`
	StatusID   uuid.UUID `json:"statusId"`
	StatusName string    `json:"statusName"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
