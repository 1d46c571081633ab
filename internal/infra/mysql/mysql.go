package mysql

import (
	"errors"
	"fmt"
	"log"

	"reseller-orders/internal/config"
	"reseller-orders/internal/domain"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func NewMySQL(cfg config.MySQL) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

// Migrate creates or updates the five order tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Service{},
		&domain.Product{},
		&domain.OrderStatus{},
		&domain.Order{},
		&domain.OrderItem{},
	)
}

// EnsureOrderStatuses inserts any of the given status names that are missing.
// Existing rows keep their ids.
func EnsureOrderStatuses(db *gorm.DB, names ...string) error {
	for _, name := range names {
		var st domain.OrderStatus
		err := db.Where("name = ?", name).Take(&st).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup status %q: %w", name, err)
		}

		st = domain.OrderStatus{ID: domain.NewBinaryID(uuid.New()), Name: name}
		if err := db.Create(&st).Error; err != nil {
			return fmt.Errorf("create status %q: %w", name, err)
		}
		log.Printf("seeded order status %q", name)
	}
	return nil
}

// DefaultOrderStatuses is the reference data a fresh database needs.
var DefaultOrderStatuses = []string{
	domain.StatusCreated,
	domain.StatusInProgress,
	domain.StatusCompleted,
	domain.StatusFailed,
}
