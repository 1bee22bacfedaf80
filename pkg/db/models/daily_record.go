package models

import (
	"time"

	"github.com/google/uuid"
)

// DailyRecord is one customer's delivery activity for one calendar day.
// HoldingStatus is derived: previous day's balance + delivered - collected.
type DailyRecord struct {
	ID            uuid.UUID `gorm:"column:update_id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID    uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:idx_daily_updates_customer_date,priority:1"`
	Date          time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_daily_updates_customer_date,priority:2"`
	DeliveredQty  int       `gorm:"column:delivered_qty;not null;default:0"`
	CollectedQty  int       `gorm:"column:collected_qty;not null;default:0"`
	HoldingStatus int       `gorm:"column:holding_status;not null;default:0"`
	Notes         *string   `gorm:"column:notes;type:text"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Customer *Customer `gorm:"foreignKey:CustomerID;references:ID"`
}

// TableName keeps the legacy table name.
func (DailyRecord) TableName() string { return "daily_updates" }
