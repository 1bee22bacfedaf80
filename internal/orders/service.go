package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
	"github.com/kanchanlabs/delivery-backend/pkg/enums"
	apperrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
	"github.com/kanchanlabs/delivery-backend/pkg/logger"
)

// CreateInput carries a new one-off order.
type CreateInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	CanQty          int
	DeliveryAmount  *decimal.Decimal
	DeliveryDate    time.Time
	DeliveryTime    string
	Notes           *string
}

// UpdateInput carries a partial order edit. Nil fields are left alone.
type UpdateInput struct {
	CustomerName    *string
	CustomerPhone   *string
	CustomerAddress *string
	CanQty          *int
	CollectedQty    *int
	CollectedDate   *time.Time
	DeliveryAmount  *decimal.Decimal
	DeliveryDate    *time.Time
	DeliveryTime    *string
	Notes           *string
}

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

// Service manages walk-in orders outside the registered-customer ledger.
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService builds an order service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo, logger: params.Logger}, nil
}

// Create records a new order in the pending state.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderDate:       normalizeDate(time.Now().UTC()),
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		CustomerAddress: strings.TrimSpace(input.CustomerAddress),
		CanQty:          input.CanQty,
		DeliveryAmount:  input.DeliveryAmount,
		DeliveryDate:    normalizeDate(input.DeliveryDate),
		DeliveryTime:    strings.TrimSpace(input.DeliveryTime),
		Status:          enums.OrderStatusPending,
		Notes:           input.Notes,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "saving order")
	}
	return order, nil
}

// Get returns one order by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "reading order")
	}
	if order == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// List returns orders matching the optional status and delivery date filters.
func (s *Service) List(ctx context.Context, params ListQuery) ([]models.Order, error) {
	orders, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing orders")
	}
	return orders, nil
}

// Update applies a partial edit to an order. Terminal orders are immutable.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if isTerminal(order.Status) {
		return nil, apperrors.New(apperrors.CodeConflict, "order is already closed").
			WithDetails(map[string]string{"status": string(order.Status)})
	}

	if input.CustomerName != nil {
		order.CustomerName = strings.TrimSpace(*input.CustomerName)
	}
	if input.CustomerPhone != nil {
		order.CustomerPhone = strings.TrimSpace(*input.CustomerPhone)
	}
	if input.CustomerAddress != nil {
		order.CustomerAddress = strings.TrimSpace(*input.CustomerAddress)
	}
	if input.CanQty != nil {
		if *input.CanQty <= 0 {
			return nil, apperrors.New(apperrors.CodeValidation, "can_qty must be positive")
		}
		order.CanQty = *input.CanQty
	}
	if input.CollectedQty != nil {
		if *input.CollectedQty < 0 || *input.CollectedQty > order.CanQty {
			return nil, apperrors.New(apperrors.CodeValidation, "collected_qty must be between 0 and can_qty")
		}
		order.CollectedQty = input.CollectedQty
	}
	if input.CollectedDate != nil {
		normalized := normalizeDate(*input.CollectedDate)
		order.CollectedDate = &normalized
	}
	if input.DeliveryAmount != nil {
		order.DeliveryAmount = input.DeliveryAmount
	}
	if input.DeliveryDate != nil {
		order.DeliveryDate = normalizeDate(*input.DeliveryDate)
	}
	if input.DeliveryTime != nil {
		order.DeliveryTime = strings.TrimSpace(*input.DeliveryTime)
	}
	if input.Notes != nil {
		order.Notes = input.Notes
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "saving order")
	}
	return order, nil
}

// UpdateStatus moves an order through its lifecycle. Delivered and cancelled
// are terminal.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid order status")
	}
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}
	if isTerminal(order.Status) {
		return nil, apperrors.New(apperrors.CodeConflict, "order is already closed").
			WithDetails(map[string]string{"status": string(order.Status)})
	}

	order.Status = status
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "saving order status")
	}
	return order, nil
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting order")
	}
	return nil
}

func isTerminal(status enums.OrderStatus) bool {
	return status == enums.OrderStatusDelivered || status == enums.OrderStatusCancelled
}

func validateCreate(input CreateInput) error {
	details := map[string]string{}
	if strings.TrimSpace(input.CustomerName) == "" {
		details["customer_name"] = "required"
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		details["customer_phone"] = "required"
	}
	if strings.TrimSpace(input.CustomerAddress) == "" {
		details["customer_address"] = "required"
	}
	if input.CanQty <= 0 {
		details["can_qty"] = "must be positive"
	}
	if input.DeliveryDate.IsZero() {
		details["delivery_date"] = "required"
	}
	if strings.TrimSpace(input.DeliveryTime) == "" {
		details["delivery_time"] = "required"
	}
	if input.DeliveryAmount != nil && input.DeliveryAmount.IsNegative() {
		details["delivery_amount"] = "must not be negative"
	}
	if len(details) > 0 {
		return apperrors.New(apperrors.CodeValidation, "invalid order").WithDetails(details)
	}
	return nil
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
