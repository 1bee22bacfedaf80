package controllers

import (
	"net/http"
	"time"

	"github.com/kanchanlabs/delivery-backend/api/responses"
	"github.com/kanchanlabs/delivery-backend/api/validators"
	"github.com/kanchanlabs/delivery-backend/internal/pricing"
	pkgerrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
	"github.com/kanchanlabs/delivery-backend/pkg/logger"
)

// PriceCurrent returns the active price list, or an empty body when pricing
// has never been configured.
func PriceCurrent(svc *pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		price, err := svc.Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if price == nil {
			responses.WriteSuccess(w, nil)
			return
		}
		responses.WriteSuccess(w, pricing.NewPriceResponse(*price))
	}
}

// PriceHistory returns recent price list versions, newest first.
func PriceHistory(svc *pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 10, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pricing.NewPriceResponses(history))
	}
}

// PriceUpdate versions in a new price list.
func PriceUpdate(svc *pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload pricing.UpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		effectiveFrom, err := time.Parse("2006-01-02", payload.EffectiveFrom)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid effective_from"))
			return
		}

		price, err := svc.Update(r.Context(), pricing.UpdateInput{
			ShopPrice:     payload.ShopPrice,
			MonthlyPrice:  payload.MonthlyPrice,
			OrderPrice:    payload.OrderPrice,
			EffectiveFrom: effectiveFrom,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, pricing.NewPriceResponse(*price))
	}
}
