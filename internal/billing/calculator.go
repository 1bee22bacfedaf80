package billing

import (
	"github.com/shopspring/decimal"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
)

// Computation is the derived bill for one customer month before it is saved.
type Computation struct {
	TotalCans    int
	DeliveryDays int
	PricePerCan  decimal.Decimal
	BillAmount   decimal.Decimal
}

// Compute totals a month of daily records against a per-can rate. Days with
// zero delivery count toward nothing; collections never reduce a bill.
func Compute(records []models.DailyRecord, pricePerCan decimal.Decimal) Computation {
	totalCans := 0
	deliveryDays := 0
	for _, r := range records {
		totalCans += r.DeliveredQty
		if r.DeliveredQty > 0 {
			deliveryDays++
		}
	}
	amount := decimal.NewFromInt(int64(totalCans)).Mul(pricePerCan).Round(2)
	return Computation{
		TotalCans:    totalCans,
		DeliveryDays: deliveryDays,
		PricePerCan:  pricePerCan,
		BillAmount:   amount,
	}
}
