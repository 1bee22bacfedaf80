package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceList is a time-versioned price row. At most one row is active; the
// active row is only a convenience for "current price" reads, billing always
// resolves by effective_from.
type PriceList struct {
	ID            uuid.UUID       `gorm:"column:price_id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopPrice     decimal.Decimal `gorm:"column:shop_price;type:numeric(10,2);not null"`
	MonthlyPrice  decimal.Decimal `gorm:"column:monthly_price;type:numeric(10,2);not null"`
	OrderPrice    decimal.Decimal `gorm:"column:order_price;type:numeric(10,2);not null"`
	EffectiveFrom time.Time       `gorm:"column:effective_from;type:date;not null;index"`
	IsActive      bool            `gorm:"column:is_active;not null;default:false"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the legacy table name.
func (PriceList) TableName() string { return "prices" }
