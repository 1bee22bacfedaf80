package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
	"github.com/kanchanlabs/delivery-backend/pkg/enums"
	apperrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
	"github.com/kanchanlabs/delivery-backend/pkg/logger"
	"github.com/kanchanlabs/delivery-backend/pkg/types"
)

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// UpdateInput carries a full replacement price list. All three prices move
// together; partial updates are not supported.
type UpdateInput struct {
	ShopPrice     decimal.Decimal
	MonthlyPrice  decimal.Decimal
	OrderPrice    decimal.Decimal
	EffectiveFrom time.Time
}

// ServiceParams groups dependencies for the pricing service.
type ServiceParams struct {
	Repo   Repository
	Tx     TxRunner
	Logger *logger.Logger
}

// Service manages the time-versioned price lists.
type Service struct {
	repo   Repository
	tx     TxRunner
	logger *logger.Logger
}

// NewService builds a pricing service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Tx == nil {
		return nil, errors.New("tx runner is required")
	}
	return &Service{repo: params.Repo, tx: params.Tx, logger: params.Logger}, nil
}

// Current returns the active price list, or nil when none has been set yet.
func (s *Service) Current(ctx context.Context) (*models.PriceList, error) {
	price, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "reading active price list")
	}
	return price, nil
}

// History returns the most recent price lists, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]models.PriceList, error) {
	prices, err := s.repo.ListHistory(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "reading price history")
	}
	return prices, nil
}

// Update versions in a new price list: the previous active row is retired
// and the new row becomes active, in one transaction. Already-saved bills
// are never touched.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*models.PriceList, error) {
	if err := validatePrices(input); err != nil {
		return nil, err
	}

	price := &models.PriceList{
		ShopPrice:     input.ShopPrice,
		MonthlyPrice:  input.MonthlyPrice,
		OrderPrice:    input.OrderPrice,
		EffectiveFrom: normalizeDate(input.EffectiveFrom),
		IsActive:      true,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeactivateAll(ctx); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "retiring active price list")
		}
		if err := repo.Create(ctx, price); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "saving price list")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info(ctx, "price list updated")
	}
	return price, nil
}

// EffectiveForMonth resolves the price list that governs the given billing
// month: the newest list effective on or before the first day of the month.
func (s *Service) EffectiveForMonth(ctx context.Context, month types.Month) (*models.PriceList, error) {
	price, err := s.repo.FindEffectiveAt(ctx, month.Start())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "resolving effective price list")
	}
	if price == nil {
		return nil, apperrors.New(apperrors.CodePricingUnavailable, "no price list effective for month").
			WithDetails(map[string]string{"month": month.String()})
	}
	return price, nil
}

// PriceFor picks the per-can rate for a customer type off a price list.
func PriceFor(price *models.PriceList, customerType enums.CustomerType) (decimal.Decimal, error) {
	switch customerType {
	case enums.CustomerTypeShop:
		return price.ShopPrice, nil
	case enums.CustomerTypeMonthly:
		return price.MonthlyPrice, nil
	case enums.CustomerTypeOrder:
		return price.OrderPrice, nil
	default:
		return decimal.Zero, apperrors.New(apperrors.CodeValidation, "unknown customer type").
			WithDetails(map[string]string{"customer_type": string(customerType)})
	}
}

func validatePrices(input UpdateInput) error {
	invalid := map[string]string{}
	for name, v := range map[string]decimal.Decimal{
		"shop_price":    input.ShopPrice,
		"monthly_price": input.MonthlyPrice,
		"order_price":   input.OrderPrice,
	} {
		if v.IsNegative() || v.IsZero() {
			invalid[name] = v.String()
		}
	}
	if len(invalid) > 0 {
		return apperrors.New(apperrors.CodeValidation, "prices must be positive").WithDetails(invalid)
	}
	if input.EffectiveFrom.IsZero() {
		return apperrors.New(apperrors.CodeValidation, "effective_from is required")
	}
	return nil
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
