package customers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
	"github.com/kanchanlabs/delivery-backend/pkg/enums"
)

// ListQuery configures customer list queries.
type ListQuery struct {
	Search string
	Type   *enums.CustomerType
}

// Repository handles customer persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, params ListQuery) ([]models.Customer, error)
	ListAll(ctx context.Context) ([]models.Customer, error)
	CountByType(ctx context.Context, customerType enums.CustomerType) (int64, error)
	Create(ctx context.Context, customer *models.Customer) error
	Save(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a customer repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", id).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *repository) List(ctx context.Context, params ListQuery) ([]models.Customer, error) {
	query := r.db.WithContext(ctx).Model(&models.Customer{})
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR phone_number LIKE ?", like, like)
	}
	if params.Type != nil {
		query = query.Where("customer_type = ?", *params.Type)
	}

	var customers []models.Customer
	if err := query.Order("name ASC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repository) CountByType(ctx context.Context, customerType enums.CustomerType) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("customer_type = ?", customerType).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) Save(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("customer_id = ?", id).
		Delete(&models.Customer{}).Error
}
