package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyBill is one customer's computed charge for one calendar month.
// BillMonth uses the YYYY-MM form. Recomputation overwrites the totals but
// never the operator-owned paid/sent flags.
type MonthlyBill struct {
	ID           uuid.UUID       `gorm:"column:bill_id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID   uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:idx_monthly_bills_customer_month,priority:1"`
	BillMonth    string          `gorm:"column:bill_month;type:text;not null;uniqueIndex:idx_monthly_bills_customer_month,priority:2"`
	TotalCans    int             `gorm:"column:total_cans;not null;default:0"`
	DeliveryDays int             `gorm:"column:delivery_days;not null;default:0"`
	BillAmount   decimal.Decimal `gorm:"column:bill_amount;type:numeric(12,2);not null"`
	PaidStatus   bool            `gorm:"column:paid_status;not null;default:false"`
	SentStatus   bool            `gorm:"column:sent_status;not null;default:false"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Customer *Customer `gorm:"foreignKey:CustomerID;references:ID"`
}

// TableName keeps the legacy table name.
func (MonthlyBill) TableName() string { return "monthly_bills" }
