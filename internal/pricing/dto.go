package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
)

const dateLayout = "2006-01-02"

// UpdateRequest is the write payload for a new price list version.
type UpdateRequest struct {
	ShopPrice     decimal.Decimal `json:"shop_price" validate:"required"`
	MonthlyPrice  decimal.Decimal `json:"monthly_price" validate:"required"`
	OrderPrice    decimal.Decimal `json:"order_price" validate:"required"`
	EffectiveFrom string          `json:"effective_from" validate:"required,datetime=2006-01-02"`
}

// PriceResponse is the public shape of a price list row.
type PriceResponse struct {
	PriceID       string          `json:"price_id"`
	ShopPrice     decimal.Decimal `json:"shop_price"`
	MonthlyPrice  decimal.Decimal `json:"monthly_price"`
	OrderPrice    decimal.Decimal `json:"order_price"`
	EffectiveFrom string          `json:"effective_from"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewPriceResponse maps a price list row to its response shape.
func NewPriceResponse(price models.PriceList) PriceResponse {
	return PriceResponse{
		PriceID:       price.ID.String(),
		ShopPrice:     price.ShopPrice,
		MonthlyPrice:  price.MonthlyPrice,
		OrderPrice:    price.OrderPrice,
		EffectiveFrom: price.EffectiveFrom.Format(dateLayout),
		IsActive:      price.IsActive,
		CreatedAt:     price.CreatedAt,
	}
}

// NewPriceResponses maps a slice of price list rows.
func NewPriceResponses(prices []models.PriceList) []PriceResponse {
	out := make([]PriceResponse, 0, len(prices))
	for _, p := range prices {
		out = append(out, NewPriceResponse(p))
	}
	return out
}
