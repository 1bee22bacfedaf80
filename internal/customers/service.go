package customers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
	"github.com/kanchanlabs/delivery-backend/pkg/enums"
	apperrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
	"github.com/kanchanlabs/delivery-backend/pkg/logger"
)

// CreateInput carries a new customer registration.
type CreateInput struct {
	Name            string
	PhoneNumber     string
	AlternateNumber *string
	Address         string
	CustomerType    enums.CustomerType
	AdvanceAmount   *decimal.Decimal
	DefaultCanQty   *int
}

// UpdateInput carries a partial customer edit. Nil fields are left alone.
type UpdateInput struct {
	Name            *string
	PhoneNumber     *string
	AlternateNumber *string
	Address         *string
	CustomerType    *enums.CustomerType
	AdvanceAmount   *decimal.Decimal
	DefaultCanQty   *int
}

// ServiceParams groups dependencies for the customer service.
type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

// Service manages registered customers.
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService builds a customer service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo, logger: params.Logger}, nil
}

// Create registers a customer.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Customer, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Name:            strings.TrimSpace(input.Name),
		PhoneNumber:     strings.TrimSpace(input.PhoneNumber),
		AlternateNumber: input.AlternateNumber,
		Address:         strings.TrimSpace(input.Address),
		CustomerType:    input.CustomerType,
		AdvanceAmount:   input.AdvanceAmount,
		DefaultCanQty:   input.DefaultCanQty,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "saving customer")
	}
	return customer, nil
}

// Get returns one customer by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "reading customer")
	}
	if customer == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "customer not found")
	}
	return customer, nil
}

// List returns customers matching the optional search and type filters.
func (s *Service) List(ctx context.Context, params ListQuery) ([]models.Customer, error) {
	customers, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing customers")
	}
	return customers, nil
}

// Update applies a partial edit to a customer.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.New(apperrors.CodeValidation, "name cannot be empty")
		}
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.PhoneNumber != nil {
		if strings.TrimSpace(*input.PhoneNumber) == "" {
			return nil, apperrors.New(apperrors.CodeValidation, "phone number cannot be empty")
		}
		customer.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.AlternateNumber != nil {
		customer.AlternateNumber = input.AlternateNumber
	}
	if input.Address != nil {
		if strings.TrimSpace(*input.Address) == "" {
			return nil, apperrors.New(apperrors.CodeValidation, "address cannot be empty")
		}
		customer.Address = strings.TrimSpace(*input.Address)
	}
	if input.CustomerType != nil {
		if !input.CustomerType.IsValid() {
			return nil, apperrors.New(apperrors.CodeValidation, "invalid customer type")
		}
		customer.CustomerType = *input.CustomerType
	}
	if input.AdvanceAmount != nil {
		customer.AdvanceAmount = input.AdvanceAmount
	}
	if input.DefaultCanQty != nil {
		customer.DefaultCanQty = input.DefaultCanQty
	}

	if err := s.repo.Save(ctx, customer); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "saving customer")
	}
	return customer, nil
}

// Delete removes a customer. Ledger rows and bills cascade at the database.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting customer")
	}
	return nil
}

func validateCreate(input CreateInput) error {
	details := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "required"
	}
	if strings.TrimSpace(input.PhoneNumber) == "" {
		details["phone_number"] = "required"
	}
	if strings.TrimSpace(input.Address) == "" {
		details["address"] = "required"
	}
	if !input.CustomerType.IsValid() {
		details["customer_type"] = "must be shop, monthly or order"
	}
	if input.AdvanceAmount != nil && input.AdvanceAmount.IsNegative() {
		details["advance_amount"] = "must not be negative"
	}
	if input.DefaultCanQty != nil && *input.DefaultCanQty < 0 {
		details["can_qty"] = "must not be negative"
	}
	if len(details) > 0 {
		return apperrors.New(apperrors.CodeValidation, "invalid customer").WithDetails(details)
	}
	return nil
}
