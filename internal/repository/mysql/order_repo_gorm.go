package mysql

import (
	"context"
	"errors"
	"log"
	"time"

	"reseller-orders/internal/domain"
	"reseller-orders/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db    *gorm.DB
	now   func() time.Time
	newID func() uuid.UUID
}

type Option func(*orderRepo)

func WithClock(now func() time.Time) Option {
	return func(r *orderRepo) { r.now = now }
}

func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(r *orderRepo) { r.newID = newID }
}

func NewOrderRepository(db *gorm.DB, opts ...Option) repository.OrderRepository {
	r := &orderRepo{db: db, now: time.Now, newID: uuid.New}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *orderRepo) ListOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	var orders []domain.Order
	if err := r.withItems(r.db.WithContext(ctx)).Order("created_date DESC").Find(&orders).Error; err != nil {
		log.Printf("ListOrders error: %v", err)
		return nil, err
	}
	return summaries(orders), nil
}

func (r *orderRepo) ListOrdersByStatus(ctx context.Context, status string) ([]domain.OrderSummary, error) {
	db := r.db.WithContext(ctx)
	statusIDs := db.Model(&domain.OrderStatus{}).Select("id").Where("name = ?", status)

	var orders []domain.Order
	err := r.withItems(db).
		Where("status_id IN (?)", statusIDs).
		Order("created_date DESC").
		Find(&orders).Error
	if err != nil {
		log.Printf("ListOrdersByStatus error: %v", err)
		return nil, err
	}
	return summaries(orders), nil
}

func (r *orderRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.OrderDetail, error) {
	order, err := r.findOrder(r.db.WithContext(ctx), id)
	if err != nil || order == nil {
		return nil, err
	}
	detail := repository.ToOrderDetail(order)
	return &detail, nil
}

// UpdateOrderStatus has no version check: concurrent updates of the same
// order are last-writer-wins.
func (r *orderRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (detail *domain.OrderDetail, err error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil || detail == nil {
			tx.Rollback()
		}
	}()

	st, err := r.findStatus(tx, status)
	if err != nil || st == nil {
		return nil, err
	}

	order, err := r.findOrder(tx, id)
	if err != nil || order == nil {
		return nil, err
	}

	res := tx.Model(&domain.Order{}).Where("id = ?", order.ID).Update("status_id", st.ID)
	if res.Error != nil {
		log.Printf("UpdateOrderStatus error: %v", res.Error)
		return nil, res.Error
	}
	if err := tx.Commit().Error; err != nil {
		log.Printf("UpdateOrderStatus commit error: %v", err)
		return nil, err
	}

	order.StatusID = st.ID
	order.Status = *st
	out := repository.ToOrderDetail(order)
	return &out, nil
}

func (r *orderRepo) CreateOrder(ctx context.Context, in domain.CreateOrder) (*uuid.UUID, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	st, err := r.findStatus(tx, domain.StatusCreated)
	if err != nil || st == nil {
		tx.Rollback()
		if st == nil && err == nil {
			log.Printf("CreateOrder: order status %q is not configured", domain.StatusCreated)
		}
		return nil, err
	}

	orderID := r.newID()
	order := domain.Order{
		ID:          domain.NewBinaryID(orderID),
		ResellerID:  domain.NewBinaryID(in.ResellerID),
		CustomerID:  domain.NewBinaryID(in.CustomerID),
		StatusID:    st.ID,
		CreatedDate: r.now().UTC(),
	}
	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		qty := it.Quantity
		items = append(items, domain.OrderItem{
			ID:        domain.NewBinaryID(r.newID()),
			OrderID:   order.ID,
			ServiceID: domain.NewBinaryID(it.ServiceID),
			ProductID: domain.NewBinaryID(it.ProductID),
			Quantity:  &qty,
		})
	}

	if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
		tx.Rollback()
		log.Printf("CreateOrder error: %v", err)
		return nil, err
	}
	if len(items) > 0 {
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			tx.Rollback()
			log.Printf("CreateOrder items error: %v", err)
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("CreateOrder commit error: %v", err)
		return nil, err
	}
	return &orderID, nil
}

func (r *orderRepo) GetMonthlyProfit(ctx context.Context) ([]domain.MonthProfit, error) {
	db := r.db.WithContext(ctx)
	completed := db.Model(&domain.OrderStatus{}).Select("id").Where("name = ?", domain.StatusCompleted)

	var orders []domain.Order
	err := db.Preload("Items.Product").
		Where("status_id IN (?)", completed).
		Find(&orders).Error
	if err != nil {
		log.Printf("GetMonthlyProfit error: %v", err)
		return nil, err
	}
	return repository.ProfitByMonth(orders), nil
}

func (r *orderRepo) withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Status").Preload("Items.Product").Preload("Items.Service")
}

func (r *orderRepo) findOrder(db *gorm.DB, id uuid.UUID) (*domain.Order, error) {
	var o domain.Order
	if err := r.withItems(db).Where("id = ?", domain.NewBinaryID(id)).Take(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("findOrder error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) findStatus(db *gorm.DB, name string) (*domain.OrderStatus, error) {
	var st domain.OrderStatus
	if err := db.Where("name = ?", name).Take(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("findStatus error: %v", err)
		return nil, err
	}
	return &st, nil
}

func summaries(orders []domain.Order) []domain.OrderSummary {
	out := make([]domain.OrderSummary, 0, len(orders))
	for i := range orders {
		out = append(out, repository.ToOrderSummary(&orders[i]))
	}
	return out
}
