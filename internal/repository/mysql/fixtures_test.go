package mysql

import (
	"fmt"
	"testing"
	"time"

	"reseller-orders/internal/domain"
	mmysql "reseller-orders/internal/infra/mysql"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db       *gorm.DB
	statuses map[string]domain.OrderStatus
	service  domain.Service
	productA domain.Product
	productB domain.Product
	unpriced domain.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, mmysql.Migrate(db))
	require.NoError(t, mmysql.EnsureOrderStatuses(db, mmysql.DefaultOrderStatuses...))

	f := &fixture{db: db, statuses: map[string]domain.OrderStatus{}}

	var statuses []domain.OrderStatus
	require.NoError(t, db.Find(&statuses).Error)
	for _, st := range statuses {
		f.statuses[st.Name] = st
	}

	f.service = domain.Service{ID: newID(), Name: "Email"}
	require.NoError(t, db.Create(&f.service).Error)

	f.productA = f.createProduct(t, "100GB Mailbox", "0.8", "0.9")
	f.productB = f.createProduct(t, "Archiving", "1.6", "1.7")
	f.unpriced = domain.Product{ID: newID(), ServiceID: f.service.ID, Name: "Trial"}
	require.NoError(t, db.Create(&f.unpriced).Error)

	return f
}

func (f *fixture) createProduct(t *testing.T, name, cost, price string) domain.Product {
	t.Helper()
	p := domain.Product{
		ID:        newID(),
		ServiceID: f.service.ID,
		Name:      name,
		UnitCost:  decimal.NewNullDecimal(decimal.RequireFromString(cost)),
		UnitPrice: decimal.NewNullDecimal(decimal.RequireFromString(price)),
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

type line struct {
	product domain.Product
	qty     *int
}

// insertOrder writes an order row directly, bypassing the repository, so
// tests control the status and creation date.
func (f *fixture) insertOrder(t *testing.T, status string, created time.Time, lines ...line) domain.Order {
	t.Helper()
	st, ok := f.statuses[status]
	require.True(t, ok, "unknown status %q", status)

	o := domain.Order{
		ID:          newID(),
		ResellerID:  newID(),
		CustomerID:  newID(),
		StatusID:    st.ID,
		CreatedDate: created.UTC(),
	}
	require.NoError(t, f.db.Omit("Status", "Items").Create(&o).Error)

	for _, l := range lines {
		item := domain.OrderItem{
			ID:        newID(),
			OrderID:   o.ID,
			ServiceID: f.service.ID,
			ProductID: l.product.ID,
			Quantity:  l.qty,
		}
		require.NoError(t, f.db.Omit("Product", "Service").Create(&item).Error)
	}
	return o
}

func newID() domain.BinaryID {
	return domain.NewBinaryID(uuid.New())
}

func qty(n int) *int {
	return &n
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
