package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
	"github.com/kanchanlabs/delivery-backend/pkg/enums"
)

// ListQuery configures order list queries.
type ListQuery struct {
	Status *enums.OrderStatus
	Date   *time.Time
}

// Repository handles one-off order persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params ListQuery) ([]models.Order, error)
	CountByDate(ctx context.Context, date time.Time) (int64, error)
	Create(ctx context.Context, order *models.Order) error
	Save(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an order repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, params ListQuery) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if params.Status != nil {
		query = query.Where("order_status = ?", *params.Status)
	}
	if params.Date != nil {
		query = query.Where("delivery_date = ?", *params.Date)
	}

	var orders []models.Order
	if err := query.Order("delivery_date DESC, created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_date = ?", date).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", id).
		Delete(&models.Order{}).Error
}
