package pricing

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
	"github.com/kanchanlabs/delivery-backend/pkg/enums"
	apperrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
	"github.com/kanchanlabs/delivery-backend/pkg/types"
)

type memoryRepo struct {
	prices []*models.PriceList
}

func (m *memoryRepo) WithTx(tx *gorm.DB) Repository { return m }

func (m *memoryRepo) FindActive(_ context.Context) (*models.PriceList, error) {
	for _, p := range m.prices {
		if p.IsActive {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) FindEffectiveAt(_ context.Context, at time.Time) (*models.PriceList, error) {
	var candidates []*models.PriceList
	for _, p := range m.prices {
		if !p.EffectiveFrom.After(at) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].EffectiveFrom.After(candidates[j].EffectiveFrom)
	})
	copied := *candidates[0]
	return &copied, nil
}

func (m *memoryRepo) ListHistory(_ context.Context, limit int) ([]models.PriceList, error) {
	out := make([]models.PriceList, 0, len(m.prices))
	for _, p := range m.prices {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EffectiveFrom.After(out[j].EffectiveFrom) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepo) DeactivateAll(_ context.Context) error {
	for _, p := range m.prices {
		p.IsActive = false
	}
	return nil
}

func (m *memoryRepo) Create(_ context.Context, price *models.PriceList) error {
	price.ID = uuid.New()
	copied := *price
	m.prices = append(m.prices, &copied)
	return nil
}

type noopTx struct{}

func (noopTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Tx: noopTx{}})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func priceInput(shop, monthly, order string, effective time.Time) UpdateInput {
	return UpdateInput{
		ShopPrice:     decimal.RequireFromString(shop),
		MonthlyPrice:  decimal.RequireFromString(monthly),
		OrderPrice:    decimal.RequireFromString(order),
		EffectiveFrom: effective,
	}
}

func TestUpdateRetiresPreviousList(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(t, repo)
	ctx := context.Background()

	first, err := svc.Update(ctx, priceInput("30", "25", "35", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Update(ctx, priceInput("32", "27", "37", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active == nil || active.ID != second.ID {
		t.Fatalf("expected second list active, got %+v", active)
	}

	history, err := svc.History(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history))
	}
	if history[1].ID != first.ID || history[1].IsActive {
		t.Fatal("first list should be retired but kept in history")
	}
}

func TestUpdateRejectsNonPositivePrices(t *testing.T) {
	svc := newTestService(t, &memoryRepo{})
	_, err := svc.Update(context.Background(), priceInput("0", "25", "35", time.Now()))
	if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestEffectiveForMonthPicksNewestOnOrBefore(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(t, repo)
	ctx := context.Background()

	old, _ := svc.Update(ctx, priceInput("28", "23", "33", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	newer, _ := svc.Update(ctx, priceInput("30", "25", "35", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))

	// January bills resolve against the list effective before Jan 1, not the
	// mid-month change.
	jan, _ := types.ParseMonth("2025-01")
	got, err := svc.EffectiveForMonth(ctx, jan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != old.ID {
		t.Fatalf("expected the 2024 list for January, got %v", got.EffectiveFrom)
	}

	feb, _ := types.ParseMonth("2025-02")
	got, err = svc.EffectiveForMonth(ctx, feb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != newer.ID {
		t.Fatalf("expected the 2025 list for February, got %v", got.EffectiveFrom)
	}
}

func TestEffectiveForMonthUnavailable(t *testing.T) {
	svc := newTestService(t, &memoryRepo{})
	month, _ := types.ParseMonth("2025-01")
	_, err := svc.EffectiveForMonth(context.Background(), month)
	if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodePricingUnavailable {
		t.Fatalf("expected PRICING_UNAVAILABLE, got %v", err)
	}
}

func TestPriceForCustomerType(t *testing.T) {
	price := &models.PriceList{
		ShopPrice:    decimal.RequireFromString("30"),
		MonthlyPrice: decimal.RequireFromString("25"),
		OrderPrice:   decimal.RequireFromString("35"),
	}

	got, err := PriceFor(price, enums.CustomerTypeShop)
	if err != nil || !got.Equal(price.ShopPrice) {
		t.Fatalf("shop price = %v, err = %v", got, err)
	}
	got, err = PriceFor(price, enums.CustomerTypeMonthly)
	if err != nil || !got.Equal(price.MonthlyPrice) {
		t.Fatalf("monthly price = %v, err = %v", got, err)
	}
	if _, err := PriceFor(price, enums.CustomerType("walkin")); err == nil {
		t.Fatal("expected error for unknown customer type")
	}
}
