package services

import (
	"context"

	"reseller-orders/internal/domain"
	"reseller-orders/internal/repository"

	"github.com/google/uuid"
)

// OrderService forwards every call to the repository unchanged. It keeps
// the HTTP layer independent of storage.
type OrderService struct {
	repo repository.OrderRepository
}

func NewOrderService(r repository.OrderRepository) *OrderService {
	return &OrderService{repo: r}
}

func (u *OrderService) ListOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	return u.repo.ListOrders(ctx)
}

func (u *OrderService) ListOrdersByStatus(ctx context.Context, status string) ([]domain.OrderSummary, error) {
	return u.repo.ListOrdersByStatus(ctx, status)
}

func (u *OrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.OrderDetail, error) {
	return u.repo.GetOrderByID(ctx, id)
}

func (u *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*domain.OrderDetail, error) {
	return u.repo.UpdateOrderStatus(ctx, id, status)
}

func (u *OrderService) CreateOrder(ctx context.Context, order domain.CreateOrder) (*uuid.UUID, error) {
	return u.repo.CreateOrder(ctx, order)
}

func (u *OrderService) GetMonthlyProfit(ctx context.Context) ([]domain.MonthProfit, error) {
	return u.repo.GetMonthlyProfit(ctx)
}
