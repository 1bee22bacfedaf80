package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
)

// ComputeRequest asks for bills without saving them. With a customer id the
// response is that customer's bill; without one the whole month is computed
// and returned as a manifest.
type ComputeRequest struct {
	CustomerID *string `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	Month      string  `json:"month" validate:"required,datetime=2006-01"`
}

// SaveMonthlyRequest triggers a compute-and-save run for a month.
type SaveMonthlyRequest struct {
	Month string `json:"month" validate:"required,datetime=2006-01"`
}

// StatusRequest flips the operator-owned flags on a saved bill.
type StatusRequest struct {
	PaidStatus *bool `json:"paid_status,omitempty"`
	SentStatus *bool `json:"sent_status,omitempty"`
}

// BillResponse is the public shape of a saved bill.
type BillResponse struct {
	BillID       string          `json:"bill_id"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name,omitempty"`
	BillMonth    string          `json:"bill_month"`
	TotalCans    int             `json:"total_cans"`
	DeliveryDays int             `json:"delivery_days"`
	BillAmount   decimal.Decimal `json:"bill_amount"`
	PaidStatus   bool            `json:"paid_status"`
	SentStatus   bool            `json:"sent_status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewBillResponse maps a saved bill to its response shape.
func NewBillResponse(bill models.MonthlyBill) BillResponse {
	resp := BillResponse{
		BillID:       bill.ID.String(),
		CustomerID:   bill.CustomerID.String(),
		BillMonth:    bill.BillMonth,
		TotalCans:    bill.TotalCans,
		DeliveryDays: bill.DeliveryDays,
		BillAmount:   bill.BillAmount,
		PaidStatus:   bill.PaidStatus,
		SentStatus:   bill.SentStatus,
		CreatedAt:    bill.CreatedAt,
		UpdatedAt:    bill.UpdatedAt,
	}
	if bill.Customer != nil {
		resp.CustomerName = bill.Customer.Name
	}
	return resp
}

// NewBillResponses maps a slice of saved bills.
func NewBillResponses(bills []models.MonthlyBill) []BillResponse {
	out := make([]BillResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, NewBillResponse(b))
	}
	return out
}

// ComputedBillResponse is the public shape of an unsaved computation.
type ComputedBillResponse struct {
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	CustomerType string          `json:"customer_type"`
	Month        string          `json:"month"`
	TotalCans    int             `json:"total_cans"`
	DeliveryDays int             `json:"delivery_days"`
	PricePerCan  decimal.Decimal `json:"price_per_can"`
	BillAmount   decimal.Decimal `json:"bill_amount"`
}

// NewComputedBillResponse maps a computation to its response shape.
func NewComputedBillResponse(bill CustomerBill) ComputedBillResponse {
	return ComputedBillResponse{
		CustomerID:   bill.Customer.ID.String(),
		CustomerName: bill.Customer.Name,
		CustomerType: string(bill.Customer.CustomerType),
		Month:        bill.Month.String(),
		TotalCans:    bill.TotalCans,
		DeliveryDays: bill.DeliveryDays,
		PricePerCan:  bill.PricePerCan,
		BillAmount:   bill.BillAmount,
	}
}

// BatchFailureResponse is one failed customer in a billing run manifest.
type BatchFailureResponse struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Code         string `json:"code"`
	Message      string `json:"message"`
}

// BatchResponse is the manifest returned by whole-month billing runs.
type BatchResponse struct {
	Month    string                 `json:"month"`
	Computed []ComputedBillResponse `json:"computed"`
	Failures []BatchFailureResponse `json:"failures"`
}

// NewBatchResponse maps a batch manifest to its response shape.
func NewBatchResponse(result *BatchResult) BatchResponse {
	resp := BatchResponse{
		Month:    result.Month.String(),
		Computed: make([]ComputedBillResponse, 0, len(result.Bills)),
		Failures: make([]BatchFailureResponse, 0, len(result.Failures)),
	}
	for _, bill := range result.Bills {
		resp.Computed = append(resp.Computed, NewComputedBillResponse(bill))
	}
	for _, failure := range result.Failures {
		resp.Failures = append(resp.Failures, BatchFailureResponse{
			CustomerID:   failure.CustomerID.String(),
			CustomerName: failure.CustomerName,
			Code:         string(failure.Code),
			Message:      failure.Message,
		})
	}
	return resp
}
