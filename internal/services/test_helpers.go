package services

import (
	"time"

	"reseller-orders/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func CreateMockSummary(id uuid.UUID, status string, items int) domain.OrderSummary {
	return domain.OrderSummary{
		ID:          id,
		ResellerID:  uuid.New(),
		CustomerID:  uuid.New(),
		StatusID:    uuid.New(),
		StatusName:  status,
		ItemCount:   items,
		TotalCost:   decimal.RequireFromString("3.2"),
		TotalPrice:  decimal.RequireFromString("3.5"),
		CreatedDate: time.Now().UTC(),
	}
}

func CreateMockDetail(id uuid.UUID, status string) *domain.OrderDetail {
	return &domain.OrderDetail{
		ID:          id,
		ResellerID:  uuid.New(),
		CustomerID:  uuid.New(),
		StatusID:    uuid.New(),
		StatusName:  status,
		CreatedDate: time.Now().UTC(),
		TotalCost:   decimal.RequireFromString("0.8"),
		TotalPrice:  decimal.RequireFromString("0.9"),
		Items: []domain.OrderItemDetail{
			{
				ID:          uuid.New(),
				OrderID:     id,
				ServiceID:   uuid.New(),
				ServiceName: TestServiceName,
				ProductID:   uuid.New(),
				ProductName: TestProductName,
				UnitCost:    decimal.NewNullDecimal(decimal.RequireFromString("0.8")),
				UnitPrice:   decimal.NewNullDecimal(decimal.RequireFromString("0.9")),
				TotalCost:   decimal.RequireFromString("0.8"),
				TotalPrice:  decimal.RequireFromString("0.9"),
				Quantity:    1,
			},
		},
	}
}

const (
	TestServiceName = "Email"
	TestProductName = "100GB Mailbox"
)
