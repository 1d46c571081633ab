package mocks

import (
	"context"

	"reseller-orders/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository also satisfies services.OrderServiceInterface, so the
// HTTP tests use it in place of the service.
type MockOrderRepository struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockProfitCache struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

func (m *MockProfitCache) Get(ctx context.Context) ([]domain.MonthProfit, bool) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]domain.MonthProfit), args.Bool(1)
}

func (m *MockProfitCache) Set(ctx context.Context, profit []domain.MonthProfit) {
	m.Called(ctx, profit)
}

func (m *MockProfitCache) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderSummary), args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByStatus(ctx context.Context, status string) ([]domain.OrderSummary, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderSummary), args.Error(1)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.OrderDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderDetail), args.Error(1)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*domain.OrderDetail, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderDetail), args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order domain.CreateOrder) (*uuid.UUID, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uuid.UUID), args.Error(1)
}

func (m *MockOrderRepository) GetMonthlyProfit(ctx context.Context) ([]domain.MonthProfit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthProfit), args.Error(1)
}
