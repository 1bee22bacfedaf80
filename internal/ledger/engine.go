package ledger

import (
	"fmt"
	"time"

	apperrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
)

// Entry is one day of can movement for a single customer. HoldingStatus is
// the running balance of cans the customer holds at end of that day.
type Entry struct {
	Date          time.Time
	DeliveredQty  int
	CollectedQty  int
	HoldingStatus int
}

// ValidateQuantities rejects negative movement quantities before they ever
// reach the balance computation.
func ValidateQuantities(delivered, collected int) error {
	if delivered < 0 || collected < 0 {
		return apperrors.New(apperrors.CodeValidation, "quantities must be non-negative").
			WithDetails(map[string]int{
				"delivered_qty": delivered,
				"collected_qty": collected,
			})
	}
	return nil
}

// Recompute rebuilds the holding status for a contiguous run of entries,
// chaining each day off the previous day's balance. prevBalance is the
// holding status of the last record before the run (zero when the run starts
// at the customer's first record).
//
// The input slice is not mutated. Entries must already be sorted by date
// ascending. If any day's balance would drop below zero the whole run is
// rejected and no entries are returned.
func Recompute(prevBalance int, entries []Entry) ([]Entry, error) {
	if prevBalance < 0 {
		return nil, apperrors.New(apperrors.CodeInvalidTransaction, "prior balance is negative").
			WithDetails(map[string]int{"prior_balance": prevBalance})
	}

	out := make([]Entry, len(entries))
	balance := prevBalance
	for i, e := range entries {
		if err := ValidateQuantities(e.DeliveredQty, e.CollectedQty); err != nil {
			return nil, err
		}
		balance = balance + e.DeliveredQty - e.CollectedQty
		if balance < 0 {
			return nil, apperrors.New(apperrors.CodeInvalidTransaction,
				fmt.Sprintf("holding status would become negative on %s", e.Date.Format("2006-01-02"))).
				WithDetails(map[string]any{
					"date":          e.Date.Format("2006-01-02"),
					"delivered_qty": e.DeliveredQty,
					"collected_qty": e.CollectedQty,
					"balance":       balance,
				})
		}
		out[i] = e
		out[i].HoldingStatus = balance
	}
	return out, nil
}
