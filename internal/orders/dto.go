package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
)

const dateLayout = "2006-01-02"

// CreateRequest is the payload for a new walk-in order.
type CreateRequest struct {
	CustomerName    string           `json:"customer_name" validate:"required,max=200"`
	CustomerPhone   string           `json:"customer_phone" validate:"required,max=20"`
	CustomerAddress string           `json:"customer_address" validate:"required,max=500"`
	CanQty          int              `json:"can_qty" validate:"required,gt=0"`
	DeliveryAmount  *decimal.Decimal `json:"delivery_amount,omitempty"`
	DeliveryDate    string           `json:"delivery_date" validate:"required,datetime=2006-01-02"`
	DeliveryTime    string           `json:"delivery_time" validate:"required,max=50"`
	Notes           *string          `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// UpdateRequest is the partial edit payload. Absent fields are untouched.
type UpdateRequest struct {
	CustomerName    *string          `json:"customer_name,omitempty" validate:"omitempty,max=200"`
	CustomerPhone   *string          `json:"customer_phone,omitempty" validate:"omitempty,max=20"`
	CustomerAddress *string          `json:"customer_address,omitempty" validate:"omitempty,max=500"`
	CanQty          *int             `json:"can_qty,omitempty" validate:"omitempty,gt=0"`
	CollectedQty    *int             `json:"collected_qty,omitempty" validate:"omitempty,gte=0"`
	CollectedDate   *string          `json:"collected_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DeliveryAmount  *decimal.Decimal `json:"delivery_amount,omitempty"`
	DeliveryDate    *string          `json:"delivery_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DeliveryTime    *string          `json:"delivery_time,omitempty" validate:"omitempty,max=50"`
	Notes           *string          `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// StatusRequest moves an order through its lifecycle.
type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing delivered cancelled"`
}

// OrderResponse is the public shape of an order.
type OrderResponse struct {
	OrderID         string           `json:"order_id"`
	OrderDate       string           `json:"order_date"`
	CustomerName    string           `json:"customer_name"`
	CustomerPhone   string           `json:"customer_phone"`
	CustomerAddress string           `json:"customer_address"`
	CanQty          int              `json:"can_qty"`
	CollectedQty    *int             `json:"collected_qty,omitempty"`
	CollectedDate   *string          `json:"collected_date,omitempty"`
	DeliveryAmount  *decimal.Decimal `json:"delivery_amount,omitempty"`
	DeliveryDate    string           `json:"delivery_date"`
	DeliveryTime    string           `json:"delivery_time"`
	Status          string           `json:"status"`
	Notes           *string          `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NewOrderResponse maps an order to its response shape.
func NewOrderResponse(order models.Order) OrderResponse {
	resp := OrderResponse{
		OrderID:         order.ID.String(),
		OrderDate:       order.OrderDate.Format(dateLayout),
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CustomerAddress: order.CustomerAddress,
		CanQty:          order.CanQty,
		CollectedQty:    order.CollectedQty,
		DeliveryAmount:  order.DeliveryAmount,
		DeliveryDate:    order.DeliveryDate.Format(dateLayout),
		DeliveryTime:    order.DeliveryTime,
		Status:          string(order.Status),
		Notes:           order.Notes,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	if order.CollectedDate != nil {
		formatted := order.CollectedDate.Format(dateLayout)
		resp.CollectedDate = &formatted
	}
	return resp
}

// NewOrderResponses maps a slice of orders.
func NewOrderResponses(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}
