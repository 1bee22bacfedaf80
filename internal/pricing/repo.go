package pricing

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
)

// Repository handles price list persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActive(ctx context.Context) (*models.PriceList, error)
	FindEffectiveAt(ctx context.Context, at time.Time) (*models.PriceList, error)
	ListHistory(ctx context.Context, limit int) ([]models.PriceList, error)
	DeactivateAll(ctx context.Context) error
	Create(ctx context.Context, price *models.PriceList) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a pricing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActive(ctx context.Context) (*models.PriceList, error) {
	var price models.PriceList
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("effective_from DESC").
		First(&price).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

// FindEffectiveAt returns the newest price list whose effective_from is on or
// before at. Billing resolves prices this way rather than via the active flag
// so that old months bill at old prices.
func (r *repository) FindEffectiveAt(ctx context.Context, at time.Time) (*models.PriceList, error) {
	var price models.PriceList
	if err := r.db.WithContext(ctx).
		Where("effective_from <= ?", at).
		Order("effective_from DESC").
		First(&price).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

func (r *repository) ListHistory(ctx context.Context, limit int) ([]models.PriceList, error) {
	if limit <= 0 {
		limit = 10
	}
	var prices []models.PriceList
	if err := r.db.WithContext(ctx).
		Order("effective_from DESC").
		Limit(limit).
		Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *repository) DeactivateAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&models.PriceList{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}

func (r *repository) Create(ctx context.Context, price *models.PriceList) error {
	return r.db.WithContext(ctx).Create(price).Error
}
