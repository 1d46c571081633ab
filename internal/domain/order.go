package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusCreated    = "Created"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusFailed     = "Failed"
)

type Order struct {
	ID          BinaryID    `gorm:"primaryKey"`
	ResellerID  BinaryID    `gorm:"not null"`
	CustomerID  BinaryID    `gorm:"not null"`
	StatusID    BinaryID    `gorm:"not null;index"`
	CreatedDate time.Time   `gorm:"not null;index"`
	Status      OrderStatus `gorm:"foreignKey:StatusID"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "order" }

type OrderItem struct {
	ID        BinaryID `gorm:"primaryKey"`
	OrderID   BinaryID `gorm:"not null;index"`
	ServiceID BinaryID `gorm:"not null"`
	ProductID BinaryID `gorm:"not null"`
	Quantity  *int
	Product   Product `gorm:"foreignKey:ProductID"`
	Service   Service `gorm:"foreignKey:ServiceID"`
}

func (OrderItem) TableName() string { return "order_item" }

type OrderStatus struct {
	ID   BinaryID `gorm:"primaryKey"`
	Name string   `gorm:"type:varchar(20);not null;uniqueIndex"`
}

func (OrderStatus) TableName() string { return "order_status" }

type Product struct {
	ID        BinaryID            `gorm:"primaryKey"`
	ServiceID BinaryID            `gorm:"not null"`
	Name      string              `gorm:"type:varchar(255);not null"`
	UnitCost  decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	UnitPrice decimal.NullDecimal `gorm:"type:decimal(18,4)"`
}

func (Product) TableName() string { return "product" }

type Service struct {
	ID   BinaryID `gorm:"primaryKey"`
	Name string   `gorm:"type:varchar(100);not null"`
}

func (Service) TableName() string { return "service" }
