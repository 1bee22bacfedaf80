package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kanchanlabs/delivery-backend/pkg/enums"
)

// Customer is a delivery customer; the type decides which price applies.
type Customer struct {
	ID              uuid.UUID          `gorm:"column:customer_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string             `gorm:"column:name;type:text;not null"`
	PhoneNumber     string             `gorm:"column:phone_number;type:text;not null"`
	AlternateNumber *string            `gorm:"column:alternate_number;type:text"`
	Address         string             `gorm:"column:address;type:text;not null"`
	CustomerType    enums.CustomerType `gorm:"column:customer_type;type:text;not null"`
	AdvanceAmount   *decimal.Decimal   `gorm:"column:advance_amount;type:numeric(10,2)"`
	DefaultCanQty   *int               `gorm:"column:can_qty"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table name.
func (Customer) TableName() string { return "customers" }
