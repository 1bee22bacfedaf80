package customers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
)

// CreateRequest is the registration payload.
type CreateRequest struct {
	Name            string           `json:"name" validate:"required,max=200"`
	PhoneNumber     string           `json:"phone_number" validate:"required,max=20"`
	AlternateNumber *string          `json:"alternate_number,omitempty" validate:"omitempty,max=20"`
	Address         string           `json:"address" validate:"required,max=500"`
	CustomerType    string           `json:"customer_type" validate:"required,oneof=shop monthly order"`
	AdvanceAmount   *decimal.Decimal `json:"advance_amount,omitempty"`
	CanQty          *int             `json:"can_qty,omitempty" validate:"omitempty,gte=0"`
}

// UpdateRequest is the partial edit payload. Absent fields are untouched.
type UpdateRequest struct {
	Name            *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	PhoneNumber     *string          `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	AlternateNumber *string          `json:"alternate_number,omitempty" validate:"omitempty,max=20"`
	Address         *string          `json:"address,omitempty" validate:"omitempty,max=500"`
	CustomerType    *string          `json:"customer_type,omitempty" validate:"omitempty,oneof=shop monthly order"`
	AdvanceAmount   *decimal.Decimal `json:"advance_amount,omitempty"`
	CanQty          *int             `json:"can_qty,omitempty" validate:"omitempty,gte=0"`
}

// CustomerResponse is the public shape of a customer.
type CustomerResponse struct {
	CustomerID      string           `json:"customer_id"`
	Name            string           `json:"name"`
	PhoneNumber     string           `json:"phone_number"`
	AlternateNumber *string          `json:"alternate_number,omitempty"`
	Address         string           `json:"address"`
	CustomerType    string           `json:"customer_type"`
	AdvanceAmount   *decimal.Decimal `json:"advance_amount,omitempty"`
	CanQty          *int             `json:"can_qty,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NewCustomerResponse maps a customer to its response shape.
func NewCustomerResponse(customer models.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:      customer.ID.String(),
		Name:            customer.Name,
		PhoneNumber:     customer.PhoneNumber,
		AlternateNumber: customer.AlternateNumber,
		Address:         customer.Address,
		CustomerType:    string(customer.CustomerType),
		AdvanceAmount:   customer.AdvanceAmount,
		CanQty:          customer.DefaultCanQty,
		CreatedAt:       customer.CreatedAt,
		UpdatedAt:       customer.UpdatedAt,
	}
}

// NewCustomerResponses maps a slice of customers.
func NewCustomerResponses(customers []models.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, NewCustomerResponse(c))
	}
	return out
}
