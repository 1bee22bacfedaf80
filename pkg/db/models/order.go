package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kanchanlabs/delivery-backend/pkg/enums"
)

// Order is a one-off can delivery for a walk-in customer, outside the daily
// ledger of registered customers.
type Order struct {
	ID              uuid.UUID         `gorm:"column:order_id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderDate       time.Time         `gorm:"column:order_date;type:date;not null;index"`
	CustomerName    string            `gorm:"column:customer_name;type:text;not null"`
	CustomerPhone   string            `gorm:"column:customer_phone;type:text;not null"`
	CustomerAddress string            `gorm:"column:customer_address;type:text;not null"`
	CanQty          int               `gorm:"column:can_qty;not null"`
	CollectedQty    *int              `gorm:"column:collected_qty"`
	CollectedDate   *time.Time        `gorm:"column:collected_date;type:date"`
	DeliveryAmount  *decimal.Decimal  `gorm:"column:delivery_amount;type:numeric(10,2)"`
	DeliveryDate    time.Time         `gorm:"column:delivery_date;type:date;not null"`
	DeliveryTime    string            `gorm:"column:delivery_time;type:text;not null"`
	Status          enums.OrderStatus `gorm:"column:order_status;type:text;not null;default:'pending'"`
	Notes           *string           `gorm:"column:notes;type:text"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table name.
func (Order) TableName() string { return "orders" }
