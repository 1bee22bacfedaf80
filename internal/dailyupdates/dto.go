package dailyupdates

import (
	"time"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
)

const dateLayout = "2006-01-02"

// UpsertRequest is the write payload for a daily update. Posting the same
// customer and date twice replaces the earlier entry.
type UpsertRequest struct {
	CustomerID   string  `json:"customer_id" validate:"required,uuid"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	DeliveredQty int     `json:"delivered_qty" validate:"gte=0"`
	CollectedQty int     `json:"collected_qty" validate:"gte=0"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// DailyUpdateResponse is the public shape of a daily record.
type DailyUpdateResponse struct {
	UpdateID      string    `json:"update_id"`
	CustomerID    string    `json:"customer_id"`
	CustomerName  string    `json:"customer_name,omitempty"`
	Date          string    `json:"date"`
	DeliveredQty  int       `json:"delivered_qty"`
	CollectedQty  int       `json:"collected_qty"`
	HoldingStatus int       `json:"holding_status"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewDailyUpdateResponse maps a record to its response shape.
func NewDailyUpdateResponse(record models.DailyRecord) DailyUpdateResponse {
	resp := DailyUpdateResponse{
		UpdateID:      record.ID.String(),
		CustomerID:    record.CustomerID.String(),
		Date:          record.Date.Format(dateLayout),
		DeliveredQty:  record.DeliveredQty,
		CollectedQty:  record.CollectedQty,
		HoldingStatus: record.HoldingStatus,
		Notes:         record.Notes,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
	if record.Customer != nil {
		resp.CustomerName = record.Customer.Name
	}
	return resp
}

// NewDailyUpdateResponses maps a slice of records.
func NewDailyUpdateResponses(records []models.DailyRecord) []DailyUpdateResponse {
	out := make([]DailyUpdateResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewDailyUpdateResponse(r))
	}
	return out
}

// UpsertResponse wraps the saved record with how far the recompute reached.
type UpsertResponse struct {
	Record              DailyUpdateResponse `json:"record"`
	RecomputedLaterDays int                 `json:"recomputed_later_days"`
}

// LedgerResponse is one customer's ledger for a month.
type LedgerResponse struct {
	CustomerID     string                `json:"customer_id"`
	Month          string                `json:"month"`
	OpeningBalance int                   `json:"opening_balance"`
	Entries        []DailyUpdateResponse `json:"entries"`
}
