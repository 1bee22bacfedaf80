package dailyupdates

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
)

// Repository handles daily update persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCustomerAndDate(ctx context.Context, customerID uuid.UUID, date time.Time) (*models.DailyRecord, error)
	BalanceBefore(ctx context.Context, customerID uuid.UUID, date time.Time) (int, error)
	ListFrom(ctx context.Context, customerID uuid.UUID, date time.Time) ([]models.DailyRecord, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.DailyRecord, error)
	ListByCustomerRange(ctx context.Context, customerID uuid.UUID, from, until time.Time) ([]models.DailyRecord, error)
	Create(ctx context.Context, record *models.DailyRecord) error
	Save(ctx context.Context, record *models.DailyRecord) error
	UpdateHoldingStatus(ctx context.Context, id uuid.UUID, holdingStatus int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a daily update repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByCustomerAndDate(ctx context.Context, customerID uuid.UUID, date time.Time) (*models.DailyRecord, error) {
	var record models.DailyRecord
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND date = ?", customerID, date).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// BalanceBefore returns the holding status of the last record strictly
// before date, or zero when no earlier record exists.
func (r *repository) BalanceBefore(ctx context.Context, customerID uuid.UUID, date time.Time) (int, error) {
	var record models.DailyRecord
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND date < ?", customerID, date).
		Order("date DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return record.HoldingStatus, nil
}

func (r *repository) ListFrom(ctx context.Context, customerID uuid.UUID, date time.Time) ([]models.DailyRecord, error) {
	var records []models.DailyRecord
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND date >= ?", customerID, date).
		Order("date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListByDate(ctx context.Context, date time.Time) ([]models.DailyRecord, error) {
	var records []models.DailyRecord
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("date = ?", date).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListByCustomerRange(ctx context.Context, customerID uuid.UUID, from, until time.Time) ([]models.DailyRecord, error) {
	var records []models.DailyRecord
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND date >= ? AND date < ?", customerID, from, until).
		Order("date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) Create(ctx context.Context, record *models.DailyRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) Save(ctx context.Context, record *models.DailyRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) UpdateHoldingStatus(ctx context.Context, id uuid.UUID, holdingStatus int) error {
	return r.db.WithContext(ctx).
		Model(&models.DailyRecord{}).
		Where("update_id = ?", id).
		Update("holding_status", holdingStatus).Error
}
