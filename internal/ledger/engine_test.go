package ledger

import (
	"testing"
	"time"

	apperrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
)

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestRecomputeChainsBalances(t *testing.T) {
	entries := []Entry{
		{Date: day(1), DeliveredQty: 10, CollectedQty: 0},
		{Date: day(2), DeliveredQty: 0, CollectedQty: 3},
		{Date: day(3), DeliveredQty: 5, CollectedQty: 5},
	}

	out, err := Recompute(0, entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{10, 7, 7}
	for i, w := range want {
		if out[i].HoldingStatus != w {
			t.Fatalf("day %d: holding status = %d, want %d", i+1, out[i].HoldingStatus, w)
		}
	}
}

func TestRecomputeStartsFromPriorBalance(t *testing.T) {
	entries := []Entry{
		{Date: day(15), DeliveredQty: 2, CollectedQty: 4},
	}

	out, err := Recompute(5, entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].HoldingStatus != 3 {
		t.Fatalf("holding status = %d, want 3", out[0].HoldingStatus)
	}
}

func TestRecomputeRejectsNegativeBalance(t *testing.T) {
	entries := []Entry{
		{Date: day(1), DeliveredQty: 10, CollectedQty: 0},
		{Date: day(2), DeliveredQty: 0, CollectedQty: 3},
		{Date: day(3), DeliveredQty: 0, CollectedQty: 8},
	}

	_, err := Recompute(0, entries)
	if err == nil {
		t.Fatal("expected error for negative balance")
	}
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeInvalidTransaction {
		t.Fatalf("expected INVALID_TRANSACTION, got %v", err)
	}
}

func TestRecomputeCascadesAfterEdit(t *testing.T) {
	// Day 1 delivery edited from 10 down to 6 cascades through the run.
	entries := []Entry{
		{Date: day(1), DeliveredQty: 6, CollectedQty: 0},
		{Date: day(2), DeliveredQty: 0, CollectedQty: 3},
	}

	out, err := Recompute(0, entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].HoldingStatus != 6 || out[1].HoldingStatus != 3 {
		t.Fatalf("got balances %d, %d, want 6, 3", out[0].HoldingStatus, out[1].HoldingStatus)
	}
}

func TestRecomputeRejectsEditThatBreaksLaterDay(t *testing.T) {
	// Collecting 8 on day 2 is fine against the original delivery of 10 but
	// not after the day 1 delivery is edited down to 6.
	entries := []Entry{
		{Date: day(1), DeliveredQty: 6, CollectedQty: 0},
		{Date: day(2), DeliveredQty: 0, CollectedQty: 8},
	}

	_, err := Recompute(0, entries)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeInvalidTransaction {
		t.Fatalf("expected INVALID_TRANSACTION, got %v", err)
	}
}

func TestRecomputeDoesNotMutateInput(t *testing.T) {
	entries := []Entry{
		{Date: day(1), DeliveredQty: 4, CollectedQty: 0, HoldingStatus: 99},
	}

	out, err := Recompute(0, entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries[0].HoldingStatus != 99 {
		t.Fatalf("input entry mutated: %d", entries[0].HoldingStatus)
	}
	if out[0].HoldingStatus != 4 {
		t.Fatalf("output holding status = %d, want 4", out[0].HoldingStatus)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	entries := []Entry{
		{Date: day(1), DeliveredQty: 10, CollectedQty: 2},
		{Date: day(2), DeliveredQty: 1, CollectedQty: 1},
	}

	first, err := Recompute(0, entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Recompute(0, first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first {
		if first[i].HoldingStatus != second[i].HoldingStatus {
			t.Fatalf("entry %d changed between runs: %d vs %d", i, first[i].HoldingStatus, second[i].HoldingStatus)
		}
	}
}

func TestRecomputeEmptyRun(t *testing.T) {
	out, err := Recompute(7, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty output, got %d entries", len(out))
	}
}

func TestValidateQuantitiesRejectsNegatives(t *testing.T) {
	if err := ValidateQuantities(-1, 0); err == nil {
		t.Fatal("expected error for negative delivered qty")
	}
	if err := ValidateQuantities(0, -2); err == nil {
		t.Fatal("expected error for negative collected qty")
	}
	if err := ValidateQuantities(0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
