package dashboard

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
)

// Repository runs the aggregate queries behind the dashboard.
type Repository interface {
	CansMovedOn(ctx context.Context, date time.Time) (delivered int64, collected int64, err error)
	PendingCans(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a dashboard repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type movementRow struct {
	Delivered int64
	Collected int64
}

func (r *repository) CansMovedOn(ctx context.Context, date time.Time) (int64, int64, error) {
	var row movementRow
	if err := r.db.WithContext(ctx).
		Model(&models.DailyRecord{}).
		Select("COALESCE(SUM(delivered_qty), 0) AS delivered, COALESCE(SUM(collected_qty), 0) AS collected").
		Where("date = ?", date).
		Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.Delivered, row.Collected, nil
}

// PendingCans sums each customer's latest holding status. Customers without
// any ledger row contribute nothing.
func (r *repository) PendingCans(ctx context.Context) (int64, error) {
	latest := r.db.
		Model(&models.DailyRecord{}).
		Select("customer_id, MAX(date) AS max_date").
		Group("customer_id")

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.DailyRecord{}).
		Select("COALESCE(SUM(holding_status), 0)").
		Joins("JOIN (?) AS latest ON daily_updates.customer_id = latest.customer_id AND daily_updates.date = latest.max_date", latest).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
