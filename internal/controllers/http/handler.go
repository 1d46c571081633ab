package http

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"reseller-orders/internal/domain"
	"reseller-orders/internal/infra/cache"
	rabbit "reseller-orders/internal/infra/rabbitmq"
	"reseller-orders/internal/services"
	"reseller-orders/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	publishTimeout    = 5 * time.Second
	profitFillTimeout = 30 * time.Second
)

type Handler struct {
	service   services.OrderServiceInterface
	validator *validation.Validator
	cache     cache.ProfitCacheInterface
	publisher rabbit.PublisherInterface

	profitGroup singleflight.Group
	pending     sync.WaitGroup
}

func NewHandler(s services.OrderServiceInterface, c cache.ProfitCacheInterface, p rabbit.PublisherInterface) *Handler {
	if c == nil {
		c = cache.NopProfitCache{}
	}
	if p == nil {
		p = rabbit.NopPublisher{}
	}
	return &Handler{
		service:   s,
		validator: validation.New(),
		cache:     c,
		publisher: p,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)

	orders := r.Group("/orders")
	orders.GET("", h.ListOrders)
	orders.POST("", h.CreateOrder)
	orders.POST("/byStatus", h.ListOrdersByStatus)
	orders.GET("/profitByMonth", h.GetMonthlyProfit)
	orders.GET("/:orderId", h.GetOrderByID)
	orders.PUT("/:orderId/status", h.UpdateOrderStatus)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.service.ListOrders(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ListOrdersByStatus takes the status name as a bare JSON string body.
func (h *Handler) ListOrdersByStatus(c *gin.Context) {
	status, ok := h.bindStatus(c)
	if !ok {
		return
	}

	orders, err := h.service.ListOrdersByStatus(c.Request.Context(), status)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrderByID(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.service.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		internalError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}
	status, ok := h.bindStatus(c)
	if !ok {
		return
	}

	order, err := h.service.UpdateOrderStatus(c.Request.Context(), id, status)
	if err != nil {
		internalError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "order or status not found"})
		return
	}

	h.cache.Invalidate(context.WithoutCancel(c.Request.Context()))
	h.publishAsync(domain.EventOrderStatusUpdated, domain.OrderStatusUpdatedEvent{
		OrderID:    order.ID,
		StatusID:   order.StatusID,
		StatusName: order.StatusName,
		UpdatedAt:  time.Now().UTC(),
	})

	c.JSON(http.StatusOK, order)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req validation.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "validation_failed", Fields: errs})
		return
	}

	in := req.ToDomain()
	id, err := h.service.CreateOrder(c.Request.Context(), in)
	if err != nil {
		internalError(c, err)
		return
	}
	if id == nil {
		log.Printf("create order: status %q missing from reference data", domain.StatusCreated)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "order status \"" + domain.StatusCreated + "\" is not configured"})
		return
	}

	h.cache.Invalidate(context.WithoutCancel(c.Request.Context()))
	h.publishAsync(domain.EventOrderCreated, domain.OrderCreatedEvent{
		OrderID:    *id,
		ResellerID: in.ResellerID,
		CustomerID: in.CustomerID,
		ItemCount:  len(in.Items),
		CreatedAt:  time.Now().UTC(),
	})

	c.Header("Location", "/orders/"+id.String())
	c.JSON(http.StatusCreated, *id)
}

// GetMonthlyProfit serves from the cache when possible. Concurrent misses
// share one repository call, detached from any single request's cancellation.
func (h *Handler) GetMonthlyProfit(c *gin.Context) {
	ctx := c.Request.Context()
	if profit, ok := h.cache.Get(ctx); ok {
		c.JSON(http.StatusOK, profit)
		return
	}

	ch := h.profitGroup.DoChan("monthly", func() (any, error) {
		fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), profitFillTimeout)
		defer cancel()

		profit, err := h.service.GetMonthlyProfit(fillCtx)
		if err != nil {
			return nil, err
		}
		h.cache.Set(fillCtx, profit)
		return profit, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			internalError(c, res.Err)
			return
		}
		c.JSON(http.StatusOK, res.Val.([]domain.MonthProfit))
	case <-ctx.Done():
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), ctx.Err())
		c.AbortWithStatus(http.StatusRequestTimeout)
	}
}

// Wait blocks until every in-flight event publish has finished.
func (h *Handler) Wait() {
	h.pending.Wait()
}

func (h *Handler) publishAsync(pattern string, evt any) {
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := h.publisher.Publish(ctx, pattern, evt); err != nil {
			log.Printf("Failed to publish %s event: %v", pattern, err)
		}
	}()
}

func (h *Handler) bindStatus(c *gin.Context) (string, bool) {
	var status string
	if err := c.ShouldBindJSON(&status); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return "", false
	}
	if errs := validation.ValidateStatus(status); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "validation_failed", Fields: errs})
		return "", false
	}
	return status, true
}

func parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order id"})
		return uuid.Nil, false
	}
	return id, true
}

func internalError(c *gin.Context, err error) {
	log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
