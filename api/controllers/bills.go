package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kanchanlabs/delivery-backend/api/responses"
	"github.com/kanchanlabs/delivery-backend/api/validators"
	"github.com/kanchanlabs/delivery-backend/internal/billing"
	pkgerrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
	"github.com/kanchanlabs/delivery-backend/pkg/logger"
	"github.com/kanchanlabs/delivery-backend/pkg/types"
)

// BillList returns the saved bills for a month.
func BillList(svc *billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, err := validators.ParseQueryMonth(r, "month")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bills, err := svc.ListByMonth(r.Context(), month)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, billing.NewBillResponses(bills))
	}
}

// BillCompute derives bills for a month without saving them: one customer's
// bill when a customer id is given, the whole-month manifest otherwise.
func BillCompute(svc *billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload billing.ComputeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		month, err := types.ParseMonth(payload.Month)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid month"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithBillMonth(ctx, month.String())
		}

		if payload.CustomerID == nil {
			result, err := svc.ComputeMonth(ctx, month)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, billing.NewBatchResponse(result))
			return
		}

		customerID, err := uuid.Parse(*payload.CustomerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}
		if logg != nil {
			ctx = logg.WithCustomerID(ctx, *payload.CustomerID)
		}

		bill, err := svc.ComputeBill(ctx, customerID, month)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, billing.NewComputedBillResponse(*bill))
	}
}

// BillSaveMonthly computes and persists the whole month. Failing customers
// are reported in the manifest without blocking the rest.
func BillSaveMonthly(svc *billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload billing.SaveMonthlyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		month, err := types.ParseMonth(payload.Month)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid month"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithBillMonth(ctx, month.String())
		}

		result, err := svc.SaveMonth(ctx, month)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, billing.NewBatchResponse(result))
	}
}

// BillUpdateStatus flips the paid/sent flags on a saved bill.
func BillUpdateStatus(svc *billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		billID, err := validators.ParsePathUUID(chi.URLParam(r, "billId"), "billId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload billing.StatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bill, err := svc.UpdateStatus(r.Context(), billID, payload.PaidStatus, payload.SentStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, billing.NewBillResponse(*bill))
	}
}

// BillDelete removes a saved bill.
func BillDelete(svc *billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		billID, err := validators.ParsePathUUID(chi.URLParam(r, "billId"), "billId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), billID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
