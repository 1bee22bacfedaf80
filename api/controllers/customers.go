package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kanchanlabs/delivery-backend/api/responses"
	"github.com/kanchanlabs/delivery-backend/api/validators"
	"github.com/kanchanlabs/delivery-backend/internal/customers"
	"github.com/kanchanlabs/delivery-backend/pkg/enums"
	pkgerrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
	"github.com/kanchanlabs/delivery-backend/pkg/logger"
)

// CustomerList returns customers, optionally filtered by search text or type.
func CustomerList(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := customers.ListQuery{
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			customerType, err := enums.ParseCustomerType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer type filter"))
				return
			}
			params.Type = &customerType
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customers.NewCustomerResponses(list))
	}
}

// CustomerGet returns one customer by id.
func CustomerGet(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "customerId"), "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customers.NewCustomerResponse(*customer))
	}
}

// CustomerCreate registers a new customer.
func CustomerCreate(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload customers.CreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerType, err := enums.ParseCustomerType(payload.CustomerType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer type"))
			return
		}

		customer, err := svc.Create(r.Context(), customers.CreateInput{
			Name:            payload.Name,
			PhoneNumber:     payload.PhoneNumber,
			AlternateNumber: payload.AlternateNumber,
			Address:         payload.Address,
			CustomerType:    customerType,
			AdvanceAmount:   payload.AdvanceAmount,
			DefaultCanQty:   payload.CanQty,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, customers.NewCustomerResponse(*customer))
	}
}

// CustomerUpdate applies a partial edit to a customer.
func CustomerUpdate(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "customerId"), "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload customers.UpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := customers.UpdateInput{
			Name:            payload.Name,
			PhoneNumber:     payload.PhoneNumber,
			AlternateNumber: payload.AlternateNumber,
			Address:         payload.Address,
			AdvanceAmount:   payload.AdvanceAmount,
			DefaultCanQty:   payload.CanQty,
		}
		if payload.CustomerType != nil {
			customerType, err := enums.ParseCustomerType(*payload.CustomerType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer type"))
				return
			}
			input.CustomerType = &customerType
		}

		customer, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customers.NewCustomerResponse(*customer))
	}
}

// CustomerDelete removes a customer.
func CustomerDelete(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "customerId"), "customerId")
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
