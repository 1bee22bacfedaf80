package dailyupdates

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
	apperrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
	"github.com/kanchanlabs/delivery-backend/pkg/types"
)

type memoryRepo struct {
	records map[uuid.UUID]*models.DailyRecord
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: make(map[uuid.UUID]*models.DailyRecord)}
}

func (m *memoryRepo) WithTx(tx *gorm.DB) Repository { return m }

func (m *memoryRepo) sorted(customerID uuid.UUID) []*models.DailyRecord {
	var out []*models.DailyRecord
	for _, r := range m.records {
		if r.CustomerID == customerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (m *memoryRepo) FindByCustomerAndDate(_ context.Context, customerID uuid.UUID, date time.Time) (*models.DailyRecord, error) {
	for _, r := range m.records {
		if r.CustomerID == customerID && r.Date.Equal(date) {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) BalanceBefore(_ context.Context, customerID uuid.UUID, date time.Time) (int, error) {
	balance := 0
	for _, r := range m.sorted(customerID) {
		if r.Date.Before(date) {
			balance = r.HoldingStatus
		}
	}
	return balance, nil
}

func (m *memoryRepo) ListFrom(_ context.Context, customerID uuid.UUID, date time.Time) ([]models.DailyRecord, error) {
	var out []models.DailyRecord
	for _, r := range m.sorted(customerID) {
		if !r.Date.Before(date) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListByDate(_ context.Context, date time.Time) ([]models.DailyRecord, error) {
	var out []models.DailyRecord
	for _, r := range m.records {
		if r.Date.Equal(date) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListByCustomerRange(_ context.Context, customerID uuid.UUID, from, until time.Time) ([]models.DailyRecord, error) {
	var out []models.DailyRecord
	for _, r := range m.sorted(customerID) {
		if !r.Date.Before(from) && r.Date.Before(until) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memoryRepo) Create(_ context.Context, record *models.DailyRecord) error {
	record.ID = uuid.New()
	copied := *record
	m.records[record.ID] = &copied
	return nil
}

func (m *memoryRepo) Save(_ context.Context, record *models.DailyRecord) error {
	copied := *record
	m.records[record.ID] = &copied
	return nil
}

func (m *memoryRepo) UpdateHoldingStatus(_ context.Context, id uuid.UUID, holdingStatus int) error {
	r, ok := m.records[id]
	if !ok {
		return errors.New("record not found")
	}
	r.HoldingStatus = holdingStatus
	return nil
}

// collidingRepo fails Create with a unique-violation error until failures
// runs out, then delegates to the in-memory repo.
type collidingRepo struct {
	*memoryRepo
	failures int
	creates  int
}

func (c *collidingRepo) WithTx(tx *gorm.DB) Repository { return c }

func (c *collidingRepo) Create(ctx context.Context, record *models.DailyRecord) error {
	c.creates++
	if c.failures > 0 {
		c.failures--
		return errors.New(`duplicate key value violates unique constraint "idx_daily_updates_customer_date"`)
	}
	return c.memoryRepo.Create(ctx, record)
}

type stubCustomers struct {
	known map[uuid.UUID]bool
}

func (s *stubCustomers) FindByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	if s.known[id] {
		return &models.Customer{ID: id, Name: "Test Customer"}, nil
	}
	return nil, nil
}

type noopTx struct{}

func (noopTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func newTestService(t *testing.T, repo Repository, customerID uuid.UUID) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Customers: &stubCustomers{known: map[uuid.UUID]bool{customerID: true}},
		Tx:        noopTx{},
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func testDay(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestUpsertCreatesFirstRecord(t *testing.T) {
	repo := newMemoryRepo()
	customerID := uuid.New()
	svc := newTestService(t, repo, customerID)

	saved, later, err := svc.Upsert(context.Background(), UpsertInput{
		CustomerID:   customerID,
		Date:         testDay(1),
		DeliveredQty: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.HoldingStatus != 10 {
		t.Fatalf("holding status = %d, want 10", saved.HoldingStatus)
	}
	if later != 0 {
		t.Fatalf("expected no later days, got %d", later)
	}
}

func TestUpsertChainsFromPreviousDay(t *testing.T) {
	repo := newMemoryRepo()
	customerID := uuid.New()
	svc := newTestService(t, repo, customerID)
	ctx := context.Background()

	mustUpsert(t, svc, ctx, customerID, testDay(1), 10, 0)
	saved, _, err := svc.Upsert(ctx, UpsertInput{
		CustomerID:   customerID,
		Date:         testDay(2),
		CollectedQty: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.HoldingStatus != 7 {
		t.Fatalf("holding status = %d, want 7", saved.HoldingStatus)
	}
}

func TestUpsertRejectsOverCollection(t *testing.T) {
	repo := newMemoryRepo()
	customerID := uuid.New()
	svc := newTestService(t, repo, customerID)
	ctx := context.Background()

	mustUpsert(t, svc, ctx, customerID, testDay(1), 10, 0)
	mustUpsert(t, svc, ctx, customerID, testDay(2), 0, 3)

	_, _, err := svc.Upsert(ctx, UpsertInput{
		CustomerID:   customerID,
		Date:         testDay(3),
		CollectedQty: 8,
	})
	if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodeInvalidTransaction {
		t.Fatalf("expected INVALID_TRANSACTION, got %v", err)
	}

	// Failed write leaves the ledger untouched.
	records, _ := repo.ListFrom(ctx, customerID, testDay(1))
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].HoldingStatus != 7 {
		t.Fatalf("day 2 balance changed to %d", records[1].HoldingStatus)
	}
}

func TestUpsertEditCascadesToLaterDays(t *testing.T) {
	repo := newMemoryRepo()
	customerID := uuid.New()
	svc := newTestService(t, repo, customerID)
	ctx := context.Background()

	mustUpsert(t, svc, ctx, customerID, testDay(1), 10, 0)
	mustUpsert(t, svc, ctx, customerID, testDay(2), 0, 3)

	saved, later, err := svc.Upsert(ctx, UpsertInput{
		CustomerID:   customerID,
		Date:         testDay(1),
		DeliveredQty: 6,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.HoldingStatus != 6 {
		t.Fatalf("day 1 balance = %d, want 6", saved.HoldingStatus)
	}
	if later != 1 {
		t.Fatalf("expected 1 later day recomputed, got %d", later)
	}

	records, _ := repo.ListFrom(ctx, customerID, testDay(2))
	if records[0].HoldingStatus != 3 {
		t.Fatalf("day 2 balance = %d, want 3", records[0].HoldingStatus)
	}
}

func TestUpsertRejectsEditThatBreaksLaterDay(t *testing.T) {
	repo := newMemoryRepo()
	customerID := uuid.New()
	svc := newTestService(t, repo, customerID)
	ctx := context.Background()

	mustUpsert(t, svc, ctx, customerID, testDay(1), 10, 0)
	mustUpsert(t, svc, ctx, customerID, testDay(2), 0, 8)

	_, _, err := svc.Upsert(ctx, UpsertInput{
		CustomerID:   customerID,
		Date:         testDay(1),
		DeliveredQty: 6,
	})
	if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodeInvalidTransaction {
		t.Fatalf("expected INVALID_TRANSACTION, got %v", err)
	}

	records, _ := repo.ListFrom(ctx, customerID, testDay(1))
	if records[0].DeliveredQty != 10 {
		t.Fatalf("day 1 delivered changed to %d", records[0].DeliveredQty)
	}
}

func TestUpsertSameDayReplacesRecord(t *testing.T) {
	repo := newMemoryRepo()
	customerID := uuid.New()
	svc := newTestService(t, repo, customerID)
	ctx := context.Background()

	mustUpsert(t, svc, ctx, customerID, testDay(1), 10, 0)
	saved, _, err := svc.Upsert(ctx, UpsertInput{
		CustomerID:   customerID,
		Date:         testDay(1),
		DeliveredQty: 4,
		CollectedQty: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.HoldingStatus != 3 {
		t.Fatalf("holding status = %d, want 3", saved.HoldingStatus)
	}
	if len(repo.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(repo.records))
	}
}

func TestUpsertUnknownCustomer(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(t, repo, uuid.New())

	_, _, err := svc.Upsert(context.Background(), UpsertInput{
		CustomerID:   uuid.New(),
		Date:         testDay(1),
		DeliveredQty: 1,
	})
	if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpsertBackdatedInsertRecomputesForward(t *testing.T) {
	repo := newMemoryRepo()
	customerID := uuid.New()
	svc := newTestService(t, repo, customerID)
	ctx := context.Background()

	mustUpsert(t, svc, ctx, customerID, testDay(1), 10, 0)
	mustUpsert(t, svc, ctx, customerID, testDay(3), 0, 3)

	saved, later, err := svc.Upsert(ctx, UpsertInput{
		CustomerID:   customerID,
		Date:         testDay(2),
		DeliveredQty: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.HoldingStatus != 15 {
		t.Fatalf("day 2 balance = %d, want 15", saved.HoldingStatus)
	}
	if later != 1 {
		t.Fatalf("expected 1 later day recomputed, got %d", later)
	}

	records, _ := repo.ListFrom(ctx, customerID, testDay(3))
	if records[0].HoldingStatus != 12 {
		t.Fatalf("day 3 balance = %d, want 12", records[0].HoldingStatus)
	}
}

func TestLedgerReturnsOpeningBalance(t *testing.T) {
	repo := newMemoryRepo()
	customerID := uuid.New()
	svc := newTestService(t, repo, customerID)
	ctx := context.Background()

	mustUpsert(t, svc, ctx, customerID, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 5, 0)
	mustUpsert(t, svc, ctx, customerID, testDay(2), 2, 0)

	month, _ := types.ParseMonth("2025-01")
	opening, records, err := svc.Ledger(ctx, customerID, month)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opening != 5 {
		t.Fatalf("opening balance = %d, want 5", opening)
	}
	if len(records) != 1 || records[0].HoldingStatus != 7 {
		t.Fatalf("unexpected month records: %+v", records)
	}
}

func TestUpsertRetriesAfterUniqueViolation(t *testing.T) {
	repo := &collidingRepo{memoryRepo: newMemoryRepo(), failures: 1}
	customerID := uuid.New()
	svc := newTestService(t, repo, customerID)

	saved, _, err := svc.Upsert(context.Background(), UpsertInput{
		CustomerID:   customerID,
		Date:         testDay(1),
		DeliveredQty: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.creates != 2 {
		t.Fatalf("create attempts = %d, want 2", repo.creates)
	}
	if saved.HoldingStatus != 10 {
		t.Fatalf("holding status = %d, want 10", saved.HoldingStatus)
	}
}

func TestUpsertExhaustedRetriesSurfaceConcurrentUpdate(t *testing.T) {
	repo := &collidingRepo{memoryRepo: newMemoryRepo(), failures: 10}
	customerID := uuid.New()
	svc := newTestService(t, repo, customerID)

	_, _, err := svc.Upsert(context.Background(), UpsertInput{
		CustomerID:   customerID,
		Date:         testDay(1),
		DeliveredQty: 10,
	})
	if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodeConcurrentUpdate {
		t.Fatalf("expected CONCURRENT_UPDATE, got %v", err)
	}
	if repo.creates != 3 {
		t.Fatalf("create attempts = %d, want 3", repo.creates)
	}
}

func TestUpsertDoesNotRetryOtherCreateErrors(t *testing.T) {
	repo := &failingRepo{memoryRepo: newMemoryRepo()}
	customerID := uuid.New()
	svc := newTestService(t, repo, customerID)

	_, _, err := svc.Upsert(context.Background(), UpsertInput{
		CustomerID:   customerID,
		Date:         testDay(1),
		DeliveredQty: 10,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if repo.creates != 1 {
		t.Fatalf("create attempts = %d, want 1", repo.creates)
	}
}

// failingRepo fails Create with an error no retry should absorb.
type failingRepo struct {
	*memoryRepo
	creates int
}

func (f *failingRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *failingRepo) Create(_ context.Context, _ *models.DailyRecord) error {
	f.creates++
	return errors.New("connection reset by peer")
}

func mustUpsert(t *testing.T, svc *Service, ctx context.Context, customerID uuid.UUID, date time.Time, delivered, collected int) {
	t.Helper()
	if _, _, err := svc.Upsert(ctx, UpsertInput{
		CustomerID:   customerID,
		Date:         date,
		DeliveredQty: delivered,
		CollectedQty: collected,
	}); err != nil {
		t.Fatalf("seed upsert failed: %v", err)
	}
}
