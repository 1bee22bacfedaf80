package dailyupdates

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kanchanlabs/delivery-backend/internal/ledger"
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

// CustomerFinder resolves customers referenced by daily updates.
type CustomerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

// UpsertInput is the validated write input for one customer day.
type UpsertInput struct {
	CustomerID   uuid.UUID
	Date         time.Time
	DeliveredQty int
	CollectedQty int
	Notes        *string
}

// ServiceParams groups dependencies for the daily updates service.
type ServiceParams struct {
	Repo      Repository
	Customers CustomerFinder
	Tx        TxRunner
	Logger    *logger.Logger
	Metrics   *metrics.EngineMetrics
	Retries   int
}

// Service owns the holding-status ledger. All writes for one customer are
// serialized; balances for later days are recomputed inside the same
// transaction as the write itself.
type Service struct {
	repo      Repository
	customers CustomerFinder
	tx        TxRunner
	logger    *logger.Logger
	metrics   *metrics.EngineMetrics
	retries   int
	locks     *customerLocks
}

// NewService builds a daily updates service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Customers == nil {
		return nil, errors.New("customer finder is required")
	}
	if params.Tx == nil {
		return nil, errors.New("tx runner is required")
	}
	retries := params.Retries
	if retries <= 0 {
		retries = 3
	}
	return &Service{
		repo:      params.Repo,
		customers: params.Customers,
		tx:        params.Tx,
		logger:    params.Logger,
		metrics:   params.Metrics,
		retries:   retries,
		locks:     newCustomerLocks(),
	}, nil
}

// Upsert records one customer day, replacing any existing entry for the same
// date, and recomputes the holding status of every later day. Returns the
// saved record and the number of later days touched.
func (s *Service) Upsert(ctx context.Context, input UpsertInput) (*models.DailyRecord, int, error) {
	if err := ledger.ValidateQuantities(input.DeliveredQty, input.CollectedQty); err != nil {
		return nil, 0, err
	}
	input.Date = normalizeDate(input.Date)

	customer, err := s.customers.FindByID(ctx, input.CustomerID)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeInternal, err, "looking up customer")
	}
	if customer == nil {
		return nil, 0, apperrors.New(apperrors.CodeNotFound, "customer not found")
	}

	unlock := s.locks.lock(input.CustomerID)
	defer unlock()

	started := time.Now()
	var saved *models.DailyRecord
	var laterDays int
	for attempt := 0; attempt < s.retries; attempt++ {
		saved, laterDays, err = s.upsertOnce(ctx, input)
		if err == nil {
			break
		}
		if !db.IsUniqueViolation(err, "idx_daily_updates_customer_date") {
			return nil, 0, err
		}
		if s.logger != nil {
			s.logger.Warn(ctx, "daily update upsert collided, retrying")
		}
	}
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeConcurrentUpdate, err, "daily update upsert kept colliding")
	}

	s.metrics.ObserveRecompute("upsert", time.Since(started))
	return saved, laterDays, nil
}

func (s *Service) upsertOnce(ctx context.Context, input UpsertInput) (*models.DailyRecord, int, error) {
	var saved *models.DailyRecord
	var laterDays int

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		prevBalance, err := repo.BalanceBefore(ctx, input.CustomerID, input.Date)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "reading prior balance")
		}

		run, err := repo.ListFrom(ctx, input.CustomerID, input.Date)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "reading ledger run")
		}

		var target *models.DailyRecord
		if len(run) > 0 && sameDay(run[0].Date, input.Date) {
			target = &run[0]
			target.DeliveredQty = input.DeliveredQty
			target.CollectedQty = input.CollectedQty
			target.Notes = input.Notes
		} else {
			target = &models.DailyRecord{
				CustomerID:   input.CustomerID,
				Date:         input.Date,
				DeliveredQty: input.DeliveredQty,
				CollectedQty: input.CollectedQty,
				Notes:        input.Notes,
			}
			run = append([]models.DailyRecord{*target}, run...)
			target = &run[0]
		}

		entries := make([]ledger.Entry, len(run))
		for i, rec := range run {
			entries[i] = ledger.Entry{
				Date:          rec.Date,
				DeliveredQty:  rec.DeliveredQty,
				CollectedQty:  rec.CollectedQty,
				HoldingStatus: rec.HoldingStatus,
			}
		}

		recomputed, err := ledger.Recompute(prevBalance, entries)
		if err != nil {
			return err
		}

		target.HoldingStatus = recomputed[0].HoldingStatus
		if target.ID == uuid.Nil {
			if err := repo.Create(ctx, target); err != nil {
				return err
			}
		} else if err := repo.Save(ctx, target); err != nil {
			return err
		}

		for i := 1; i < len(run); i++ {
			if run[i].HoldingStatus == recomputed[i].HoldingStatus {
				continue
			}
			if err := repo.UpdateHoldingStatus(ctx, run[i].ID, recomputed[i].HoldingStatus); err != nil {
				return apperrors.Wrap(apperrors.CodeInternal, err, "updating later holding status")
			}
			laterDays++
		}

		saved = target
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return saved, laterDays, nil
}

// ListByDate returns every customer's record for one day, customer preloaded.
func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]models.DailyRecord, error) {
	records, err := s.repo.ListByDate(ctx, normalizeDate(date))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing daily updates")
	}
	return records, nil
}

// Ledger returns one customer's records for a month plus the balance carried
// in from before the month.
func (s *Service) Ledger(ctx context.Context, customerID uuid.UUID, month types.Month) (int, []models.DailyRecord, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return 0, nil, apperrors.Wrap(apperrors.CodeInternal, err, "looking up customer")
	}
	if customer == nil {
		return 0, nil, apperrors.New(apperrors.CodeNotFound, "customer not found")
	}

	opening, err := s.repo.BalanceBefore(ctx, customerID, month.Start())
	if err != nil {
		return 0, nil, apperrors.Wrap(apperrors.CodeInternal, err, "reading opening balance")
	}
	records, err := s.repo.ListByCustomerRange(ctx, customerID, month.Start(), month.NextStart())
	if err != nil {
		return 0, nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing ledger month")
	}
	return opening, records, nil
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
