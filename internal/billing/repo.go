package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
)

// Repository handles monthly bill persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.MonthlyBill, error)
	FindByCustomerAndMonth(ctx context.Context, customerID uuid.UUID, month string) (*models.MonthlyBill, error)
	ListByMonth(ctx context.Context, month string) ([]models.MonthlyBill, error)
	Create(ctx context.Context, bill *models.MonthlyBill) error
	Save(ctx context.Context, bill *models.MonthlyBill) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a billing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MonthlyBill, error) {
	var bill models.MonthlyBill
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", id).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

func (r *repository) FindByCustomerAndMonth(ctx context.Context, customerID uuid.UUID, month string) (*models.MonthlyBill, error) {
	var bill models.MonthlyBill
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND bill_month = ?", customerID, month).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

func (r *repository) ListByMonth(ctx context.Context, month string) ([]models.MonthlyBill, error) {
	var bills []models.MonthlyBill
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("bill_month = ?", month).
		Order("created_at ASC").
		Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repository) Create(ctx context.Context, bill *models.MonthlyBill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *repository) Save(ctx context.Context, bill *models.MonthlyBill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("bill_id = ?", id).
		Delete(&models.MonthlyBill{}).Error
}
