package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"reseller-orders/internal/domain"
	"reseller-orders/internal/mocks"
	"reseller-orders/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	engine    *gin.Engine
	handler   *Handler
	service   *mocks.MockOrderRepository
	cache     *mocks.MockProfitCache
	publisher *mocks.MockPublisher
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	s := &testServer{
		service:   new(mocks.MockOrderRepository),
		cache:     new(mocks.MockProfitCache),
		publisher: new(mocks.MockPublisher),
	}
	s.handler = NewHandler(s.service, s.cache, s.publisher)
	s.engine = gin.New()
	s.handler.RegisterRoutes(s.engine)
	return s
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	return s.doWithContext(context.Background(), method, path, body)
}

func (s *testServer) doWithContext(ctx context.Context, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	s.handler.Wait()
	return w
}

func (s *testServer) assertExpectations(t *testing.T) {
	s.service.AssertExpectations(t)
	s.cache.AssertExpectations(t)
	s.publisher.AssertExpectations(t)
}

func TestHandler_ListOrders(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockOrderRepository)
		expectedStatus int
		expectedLen    int
	}{
		{
			name: "ok",
			setupMocks: func(m *mocks.MockOrderRepository) {
				m.On("ListOrders", mock.Anything).Return([]domain.OrderSummary{
					services.CreateMockSummary(uuid.New(), domain.StatusCreated, 1),
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedLen:    1,
		},
		{
			name: "store failure",
			setupMocks: func(m *mocks.MockOrderRepository) {
				m.On("ListOrders", mock.Anything).Return(nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			tt.setupMocks(s.service)

			w := s.do(http.MethodGet, "/orders", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var out []domain.OrderSummary
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
				assert.Len(t, out, tt.expectedLen)
			}
			s.assertExpectations(t)
		})
	}
}

func TestHandler_ListOrdersByStatus(t *testing.T) {
	t.Run("status from body", func(t *testing.T) {
		s := newTestServer()
		s.service.On("ListOrdersByStatus", mock.Anything, "Completed").Return([]domain.OrderSummary{}, nil)

		w := s.do(http.MethodPost, "/orders/byStatus", `"Completed"`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
		s.assertExpectations(t)
	})

	t.Run("not a json string", func(t *testing.T) {
		s := newTestServer()

		w := s.do(http.MethodPost, "/orders/byStatus", `{"status":"Completed"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		s.assertExpectations(t)
	})

	t.Run("empty status", func(t *testing.T) {
		s := newTestServer()

		w := s.do(http.MethodPost, "/orders/byStatus", `""`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "validation_failed")
		s.assertExpectations(t)
	})
}

func TestHandler_GetOrderByID(t *testing.T) {
	orderID := uuid.New()

	tests := []struct {
		name           string
		path           string
		setupMocks     func(*mocks.MockOrderRepository)
		expectedStatus int
	}{
		{
			name: "found",
			path: "/orders/" + orderID.String(),
			setupMocks: func(m *mocks.MockOrderRepository) {
				m.On("GetOrderByID", mock.Anything, orderID).Return(services.CreateMockDetail(orderID, domain.StatusCreated), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			path: "/orders/" + orderID.String(),
			setupMocks: func(m *mocks.MockOrderRepository) {
				m.On("GetOrderByID", mock.Anything, orderID).Return(nil, nil)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed id",
			path:           "/orders/not-a-uuid",
			setupMocks:     func(*mocks.MockOrderRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "store failure",
			path: "/orders/" + orderID.String(),
			setupMocks: func(m *mocks.MockOrderRepository) {
				m.On("GetOrderByID", mock.Anything, orderID).Return(nil, errors.New("timeout"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			tt.setupMocks(s.service)

			w := s.do(http.MethodGet, tt.path, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var out domain.OrderDetail
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
				assert.Equal(t, orderID, out.ID)
				require.Len(t, out.Items, 1)
				assert.Equal(t, services.TestProductName, out.Items[0].ProductName)
			}
			s.assertExpectations(t)
		})
	}
}

func TestHandler_UpdateOrderStatus(t *testing.T) {
	orderID := uuid.New()
	path := "/orders/" + orderID.String() + "/status"

	t.Run("updated", func(t *testing.T) {
		s := newTestServer()
		detail := services.CreateMockDetail(orderID, domain.StatusCompleted)
		s.service.On("UpdateOrderStatus", mock.Anything, orderID, domain.StatusCompleted).Return(detail, nil)
		s.cache.On("Invalidate", mock.Anything).Return().Once()
		s.publisher.On("Publish", mock.Anything, domain.EventOrderStatusUpdated, mock.MatchedBy(func(e domain.OrderStatusUpdatedEvent) bool {
			return e.OrderID == orderID && e.StatusName == domain.StatusCompleted
		})).Return(nil).Once()

		w := s.do(http.MethodPut, path, `"Completed"`)

		assert.Equal(t, http.StatusOK, w.Code)
		var out domain.OrderDetail
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, domain.StatusCompleted, out.StatusName)
		s.assertExpectations(t)
	})

	t.Run("order or status unknown", func(t *testing.T) {
		s := newTestServer()
		s.service.On("UpdateOrderStatus", mock.Anything, orderID, "Lost").Return(nil, nil)

		w := s.do(http.MethodPut, path, `"Lost"`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		s.assertExpectations(t)
		s.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("client gone after commit still invalidates", func(t *testing.T) {
		s := newTestServer()
		s.service.On("UpdateOrderStatus", mock.Anything, orderID, domain.StatusCompleted).
			Return(services.CreateMockDetail(orderID, domain.StatusCompleted), nil)
		s.cache.On("Invalidate", mock.MatchedBy(liveContext)).Return().Once()
		s.publisher.On("Publish", mock.Anything, domain.EventOrderStatusUpdated, mock.Anything).Return(nil)

		w := s.doWithContext(cancelledContext(), http.MethodPut, path, `"Completed"`)

		assert.Equal(t, http.StatusOK, w.Code)
		s.assertExpectations(t)
	})

	t.Run("publish failure does not fail request", func(t *testing.T) {
		s := newTestServer()
		s.service.On("UpdateOrderStatus", mock.Anything, orderID, domain.StatusFailed).
			Return(services.CreateMockDetail(orderID, domain.StatusFailed), nil)
		s.cache.On("Invalidate", mock.Anything).Return()
		s.publisher.On("Publish", mock.Anything, domain.EventOrderStatusUpdated, mock.Anything).Return(errors.New("broker down"))

		w := s.do(http.MethodPut, path, `"Failed"`)

		assert.Equal(t, http.StatusOK, w.Code)
		s.assertExpectations(t)
	})
}

func TestHandler_CreateOrder(t *testing.T) {
	productA, productB := uuid.New(), uuid.New()
	serviceID := uuid.New()
	reseller, customer := uuid.New(), uuid.New()

	validBody := map[string]any{
		"resellerId": reseller,
		"customerId": customer,
		"items": []map[string]any{
			{"serviceId": serviceID, "productId": productA, "quantity": 2},
			{"serviceId": serviceID, "productId": productB, "quantity": 1},
		},
	}
	expectedOrder := domain.CreateOrder{
		ResellerID: reseller,
		CustomerID: customer,
		Items: []domain.CreateOrderItem{
			{ServiceID: serviceID, ProductID: productA, Quantity: 2},
			{ServiceID: serviceID, ProductID: productB, Quantity: 1},
		},
	}

	t.Run("created", func(t *testing.T) {
		s := newTestServer()
		newID := uuid.New()
		s.service.On("CreateOrder", mock.Anything, expectedOrder).Return(&newID, nil)
		s.cache.On("Invalidate", mock.Anything).Return().Once()
		s.publisher.On("Publish", mock.Anything, domain.EventOrderCreated, mock.MatchedBy(func(e domain.OrderCreatedEvent) bool {
			return e.OrderID == newID && e.ItemCount == 2 && e.ResellerID == reseller
		})).Return(nil).Once()

		w := s.do(http.MethodPost, "/orders", validBody)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/orders/"+newID.String(), w.Header().Get("Location"))
		var out uuid.UUID
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, newID, out)
		s.assertExpectations(t)
	})

	t.Run("client gone after commit still invalidates", func(t *testing.T) {
		s := newTestServer()
		newID := uuid.New()
		s.service.On("CreateOrder", mock.Anything, expectedOrder).Return(&newID, nil)
		s.cache.On("Invalidate", mock.MatchedBy(liveContext)).Return().Once()
		s.publisher.On("Publish", mock.Anything, domain.EventOrderCreated, mock.Anything).Return(nil)

		w := s.doWithContext(cancelledContext(), http.MethodPost, "/orders", validBody)

		assert.Equal(t, http.StatusCreated, w.Code)
		s.assertExpectations(t)
	})

	t.Run("duplicate products rejected before the service", func(t *testing.T) {
		s := newTestServer()
		body := map[string]any{
			"resellerId": reseller,
			"customerId": customer,
			"items": []map[string]any{
				{"serviceId": serviceID, "productId": productA, "quantity": 2},
				{"serviceId": serviceID, "productId": productA, "quantity": 1},
			},
		}

		w := s.do(http.MethodPost, "/orders", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var out ValidationErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, "validation_failed", out.Error)
		require.Len(t, out.Fields, 1)
		assert.Equal(t, "unique", out.Fields[0].Rule)
		s.service.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("no items", func(t *testing.T) {
		s := newTestServer()
		body := map[string]any{"resellerId": reseller, "customerId": customer, "items": []any{}}

		w := s.do(http.MethodPost, "/orders", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		s.service.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		s := newTestServer()

		w := s.do(http.MethodPost, "/orders", `{"resellerId": 12`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("created status missing", func(t *testing.T) {
		s := newTestServer()
		s.service.On("CreateOrder", mock.Anything, expectedOrder).Return(nil, nil)

		w := s.do(http.MethodPost, "/orders", validBody)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "not configured")
		s.assertExpectations(t)
	})
}

func TestHandler_GetMonthlyProfit(t *testing.T) {
	profit := []domain.MonthProfit{
		{Month: 1, Profit: decimal.RequireFromString("0.3")},
		{Month: 3, Profit: decimal.RequireFromString("1.5")},
	}

	t.Run("cache miss fills cache", func(t *testing.T) {
		s := newTestServer()
		s.cache.On("Get", mock.Anything).Return(nil, false).Once()
		s.service.On("GetMonthlyProfit", mock.Anything).Return(profit, nil).Once()
		s.cache.On("Set", mock.Anything, profit).Return().Once()

		w := s.do(http.MethodGet, "/orders/profitByMonth", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"month":1,"profit":"0.3"},{"month":3,"profit":"1.5"}]`, w.Body.String())
		s.assertExpectations(t)
	})

	t.Run("cache hit skips service", func(t *testing.T) {
		s := newTestServer()
		s.cache.On("Get", mock.Anything).Return(profit, true).Once()

		w := s.do(http.MethodGet, "/orders/profitByMonth", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		s.service.AssertNotCalled(t, "GetMonthlyProfit", mock.Anything)
		s.assertExpectations(t)
	})

	t.Run("store failure is not cached", func(t *testing.T) {
		s := newTestServer()
		s.cache.On("Get", mock.Anything).Return(nil, false).Once()
		s.service.On("GetMonthlyProfit", mock.Anything).Return(nil, errors.New("deadlock")).Once()

		w := s.do(http.MethodGet, "/orders/profitByMonth", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		s.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
		s.assertExpectations(t)
	})

	t.Run("cancelled caller does not fail the shared fill", func(t *testing.T) {
		s := newTestServer()
		started := make(chan struct{})
		release := make(chan struct{})
		fillErrs := make(chan error, 2)
		var startOnce, releaseOnce sync.Once
		t.Cleanup(func() { releaseOnce.Do(func() { close(release) }) })

		s.cache.On("Get", mock.Anything).Return(nil, false)
		s.service.On("GetMonthlyProfit", mock.Anything).Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			startOnce.Do(func() { close(started) })
			select {
			case <-release:
			case <-ctx.Done():
			}
			fillErrs <- ctx.Err()
		}).Return(profit, nil)
		s.cache.On("Set", mock.Anything, profit).Return()

		ctx, cancel := context.WithCancel(context.Background())
		firstDone := make(chan *httptest.ResponseRecorder, 1)
		go func() {
			firstDone <- s.doWithContext(ctx, http.MethodGet, "/orders/profitByMonth", nil)
		}()

		<-started
		secondDone := make(chan *httptest.ResponseRecorder, 1)
		go func() {
			secondDone <- s.do(http.MethodGet, "/orders/profitByMonth", nil)
		}()
		cancel()

		select {
		case w := <-firstDone:
			assert.Equal(t, http.StatusRequestTimeout, w.Code)
		case <-time.After(2 * time.Second):
			t.Fatal("cancelled caller stayed blocked on the fill")
		}

		releaseOnce.Do(func() { close(release) })

		select {
		case w := <-secondDone:
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `[{"month":1,"profit":"0.3"},{"month":3,"profit":"1.5"}]`, w.Body.String())
		case <-time.After(2 * time.Second):
			t.Fatal("second caller never got a response")
		}
		assert.NoError(t, <-fillErrs)
	})
}

func liveContext(ctx context.Context) bool {
	return ctx.Err() == nil
}

func cancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestHandler_Health(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
