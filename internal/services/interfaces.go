package services

import (
	"context"

	"reseller-orders/internal/domain"

	"github.com/google/uuid"
)

// OrderServiceInterface is what the HTTP layer depends on.
type OrderServiceInterface interface {
	ListOrders(ctx context.Context) ([]domain.OrderSummary, error)
	ListOrdersByStatus(ctx context.Context, status string) ([]domain.OrderSummary, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.OrderDetail, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*domain.OrderDetail, error)
	CreateOrder(ctx context.Context, order domain.CreateOrder) (*uuid.UUID, error)
	GetMonthlyProfit(ctx context.Context) ([]domain.MonthProfit, error)
}

var _ OrderServiceInterface = (*OrderService)(nil)
