package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kanchanlabs/delivery-backend/api/responses"
	"github.com/kanchanlabs/delivery-backend/api/validators"
	"github.com/kanchanlabs/delivery-backend/internal/orders"
	"github.com/kanchanlabs/delivery-backend/pkg/enums"
	pkgerrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
	"github.com/kanchanlabs/delivery-backend/pkg/logger"
)

// OrderList returns orders, optionally filtered by status or delivery date.
func OrderList(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := orders.ListQuery{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			params.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
			date, err := validators.ParseQueryDate(r, "date", time.Time{})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			params.Date = &date
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewOrderResponses(list))
	}
}

// OrderGet returns one order by id.
func OrderGet(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewOrderResponse(*order))
	}
}

// OrderCreate records a new walk-in order.
func OrderCreate(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload orders.CreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deliveryDate, err := time.Parse("2006-01-02", payload.DeliveryDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery date"))
			return
		}

		order, err := svc.Create(r.Context(), orders.CreateInput{
			CustomerName:    payload.CustomerName,
			CustomerPhone:   payload.CustomerPhone,
			CustomerAddress: payload.CustomerAddress,
			CanQty:          payload.CanQty,
			DeliveryAmount:  payload.DeliveryAmount,
			DeliveryDate:    deliveryDate,
			DeliveryTime:    payload.DeliveryTime,
			Notes:           payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orders.NewOrderResponse(*order))
	}
}

// OrderUpdate applies a partial edit to an open order.
func OrderUpdate(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orders.UpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.UpdateInput{
			CustomerName:    payload.CustomerName,
			CustomerPhone:   payload.CustomerPhone,
			CustomerAddress: payload.CustomerAddress,
			CanQty:          payload.CanQty,
			CollectedQty:    payload.CollectedQty,
			DeliveryAmount:  payload.DeliveryAmount,
			DeliveryTime:    payload.DeliveryTime,
			Notes:           payload.Notes,
		}
		if payload.CollectedDate != nil {
			collected, err := time.Parse("2006-01-02", *payload.CollectedDate)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid collected date"))
				return
			}
			input.CollectedDate = &collected
		}
		if payload.DeliveryDate != nil {
			delivery, err := time.Parse("2006-01-02", *payload.DeliveryDate)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery date"))
				return
			}
			input.DeliveryDate = &delivery
		}

		order, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewOrderResponse(*order))
	}
}

// OrderUpdateStatus moves an order through its lifecycle.
func OrderUpdateStatus(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orders.StatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		order, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewOrderResponse(*order))
	}
}

// OrderDelete removes an order.
func OrderDelete(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
