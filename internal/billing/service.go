package billing

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kanchanlabs/delivery-backend/internal/pricing"
	"github.com/kanchanlabs/delivery-backend/pkg/db"
	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
	apperrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
	"github.com/kanchanlabs/delivery-backend/pkg/logger"
	"github.com/kanchanlabs/delivery-backend/pkg/metrics"
	"github.com/kanchanlabs/delivery-backend/pkg/types"
)

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CustomerSource resolves the customers a billing run covers.
type CustomerSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListAll(ctx context.Context) ([]models.Customer, error)
}

// LedgerReader reads a customer's daily records for a date range.
type LedgerReader interface {
	ListByCustomerRange(ctx context.Context, customerID uuid.UUID, from, until time.Time) ([]models.DailyRecord, error)
}

// PriceResolver resolves the price list governing a billing month.
type PriceResolver interface {
	EffectiveForMonth(ctx context.Context, month types.Month) (*models.PriceList, error)
}

// CustomerBill is one computed bill before persistence.
type CustomerBill struct {
	Customer models.Customer
	Month    types.Month
	Computation
}

// BatchFailure records one customer whose bill could not be computed.
type BatchFailure struct {
	CustomerID   uuid.UUID
	CustomerName string
	Code         apperrors.Code
	Message      string
}

// BatchResult is the manifest of a whole-month billing run. A failing
// customer never blocks the rest of the batch.
type BatchResult struct {
	Month    types.Month
	Bills    []CustomerBill
	Failures []BatchFailure
}

// ServiceParams groups dependencies for the billing service.
type ServiceParams struct {
	Repo      Repository
	Customers CustomerSource
	Ledger    LedgerReader
	Pricing   PriceResolver
	Tx        TxRunner
	Logger    *logger.Logger
	Metrics   *metrics.EngineMetrics
	Workers   int
	Retries   int
}

// Service computes and persists monthly bills.
type Service struct {
	repo      Repository
	customers CustomerSource
	ledger    LedgerReader
	pricing   PriceResolver
	tx        TxRunner
	logger    *logger.Logger
	metrics   *metrics.EngineMetrics
	workers   int
	retries   int
}

// NewService builds a billing service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Customers == nil {
		return nil, errors.New("customer source is required")
	}
	if params.Ledger == nil {
		return nil, errors.New("ledger reader is required")
	}
	if params.Pricing == nil {
		return nil, errors.New("price resolver is required")
	}
	if params.Tx == nil {
		return nil, errors.New("tx runner is required")
	}
	workers := params.Workers
	if workers <= 0 {
		workers = 8
	}
	retries := params.Retries
	if retries <= 0 {
		retries = 3
	}
	return &Service{
		repo:      params.Repo,
		customers: params.Customers,
		ledger:    params.Ledger,
		pricing:   params.Pricing,
		tx:        params.Tx,
		logger:    params.Logger,
		metrics:   params.Metrics,
		workers:   workers,
		retries:   retries,
	}, nil
}

// ComputeBill derives one customer's bill for a month without saving it.
func (s *Service) ComputeBill(ctx context.Context, customerID uuid.UUID, month types.Month) (*CustomerBill, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "looking up customer")
	}
	if customer == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "customer not found")
	}
	return s.computeFor(ctx, *customer, month)
}

func (s *Service) computeFor(ctx context.Context, customer models.Customer, month types.Month) (*CustomerBill, error) {
	price, err := s.pricing.EffectiveForMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	rate, err := pricing.PriceFor(price, customer.CustomerType)
	if err != nil {
		return nil, err
	}
	records, err := s.ledger.ListByCustomerRange(ctx, customer.ID, month.Start(), month.NextStart())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "reading month records")
	}
	return &CustomerBill{
		Customer:    customer,
		Month:       month,
		Computation: Compute(records, rate),
	}, nil
}

// ComputeMonth derives bills for every registered customer in parallel. Each
// customer succeeds or fails independently; the manifest carries both sides.
func (s *Service) ComputeMonth(ctx context.Context, month types.Month) (*BatchResult, error) {
	customers, err := s.customers.ListAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing customers")
	}

	result := &BatchResult{Month: month}
	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan models.Customer)

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for customer := range jobs {
				bill, err := s.computeFor(ctx, customer, month)
				mu.Lock()
				if err != nil {
					s.metrics.IncBillingFailure("compute_month")
					result.Failures = append(result.Failures, BatchFailure{
						CustomerID:   customer.ID,
						CustomerName: customer.Name,
						Code:         apperrors.As(err).Code(),
						Message:      err.Error(),
					})
				} else {
					s.metrics.IncBillingSuccess("compute_month")
					result.Bills = append(result.Bills, *bill)
				}
				mu.Unlock()
			}
		}()
	}

	for _, customer := range customers {
		select {
		case jobs <- customer:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, apperrors.Wrap(apperrors.CodeInternal, ctx.Err(), "billing run cancelled")
		}
	}
	close(jobs)
	wg.Wait()

	sort.Slice(result.Bills, func(i, j int) bool {
		return result.Bills[i].Customer.Name < result.Bills[j].Customer.Name
	})
	if s.logger != nil && len(result.Failures) > 0 {
		s.logger.Warn(ctx, "billing run finished with failures")
	}
	return result, nil
}

// SaveMonth computes the whole month and persists every successful bill.
// Recomputation overwrites totals but keeps operator-owned paid/sent flags.
func (s *Service) SaveMonth(ctx context.Context, month types.Month) (*BatchResult, error) {
	result, err := s.ComputeMonth(ctx, month)
	if err != nil {
		return nil, err
	}

	for _, bill := range result.Bills {
		if err := s.upsertBill(ctx, bill); err != nil {
			result.Failures = append(result.Failures, BatchFailure{
				CustomerID:   bill.Customer.ID,
				CustomerName: bill.Customer.Name,
				Code:         apperrors.As(err).Code(),
				Message:      err.Error(),
			})
		}
	}
	return result, nil
}

func (s *Service) upsertBill(ctx context.Context, bill CustomerBill) error {
	var err error
	for attempt := 0; attempt < s.retries; attempt++ {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			existing, err := repo.FindByCustomerAndMonth(ctx, bill.Customer.ID, bill.Month.String())
			if err != nil {
				return apperrors.Wrap(apperrors.CodeInternal, err, "reading existing bill")
			}
			if existing == nil {
				return repo.Create(ctx, &models.MonthlyBill{
					CustomerID:   bill.Customer.ID,
					BillMonth:    bill.Month.String(),
					TotalCans:    bill.TotalCans,
					DeliveryDays: bill.DeliveryDays,
					BillAmount:   bill.BillAmount,
				})
			}
			existing.TotalCans = bill.TotalCans
			existing.DeliveryDays = bill.DeliveryDays
			existing.BillAmount = bill.BillAmount
			return repo.Save(ctx, existing)
		})
		if err == nil {
			return nil
		}
		if !db.IsUniqueViolation(err, "idx_monthly_bills_customer_month") {
			return err
		}
	}
	return apperrors.Wrap(apperrors.CodeConcurrentUpdate, err, "bill upsert kept colliding")
}

// ListByMonth returns the saved bills for a month, customers preloaded.
func (s *Service) ListByMonth(ctx context.Context, month types.Month) ([]models.MonthlyBill, error) {
	bills, err := s.repo.ListByMonth(ctx, month.String())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing bills")
	}
	return bills, nil
}

// UpdateStatus flips the operator-owned paid/sent flags on a saved bill.
func (s *Service) UpdateStatus(ctx context.Context, billID uuid.UUID, paid, sent *bool) (*models.MonthlyBill, error) {
	if paid == nil && sent == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "nothing to update")
	}
	bill, err := s.repo.FindByID(ctx, billID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "reading bill")
	}
	if bill == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "bill not found")
	}
	if paid != nil {
		bill.PaidStatus = *paid
	}
	if sent != nil {
		bill.SentStatus = *sent
	}
	if err := s.repo.Save(ctx, bill); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "saving bill status")
	}
	return bill, nil
}

// Delete removes a saved bill.
func (s *Service) Delete(ctx context.Context, billID uuid.UUID) error {
	bill, err := s.repo.FindByID(ctx, billID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "reading bill")
	}
	if bill == nil {
		return apperrors.New(apperrors.CodeNotFound, "bill not found")
	}
	if err := s.repo.Delete(ctx, billID); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting bill")
	}
	return nil
}
