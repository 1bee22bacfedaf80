package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kanchanlabs/delivery-backend/api/responses"
	"github.com/kanchanlabs/delivery-backend/api/validators"
	"github.com/kanchanlabs/delivery-backend/internal/dailyupdates"
	pkgerrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
	"github.com/kanchanlabs/delivery-backend/pkg/logger"
)

// DailyUpdateUpsert records (or replaces) one customer's entry for a day and
// recomputes the holding status of every later day.
func DailyUpdateUpsert(svc *dailyupdates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload dailyupdates.UpsertRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := uuid.Parse(payload.CustomerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}
		date, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCustomerID(ctx, payload.CustomerID)
		}

		record, laterDays, err := svc.Upsert(ctx, dailyupdates.UpsertInput{
			CustomerID:   customerID,
			Date:         date,
			DeliveredQty: payload.DeliveredQty,
			CollectedQty: payload.CollectedQty,
			Notes:        payload.Notes,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dailyupdates.UpsertResponse{
			Record:              dailyupdates.NewDailyUpdateResponse(*record),
			RecomputedLaterDays: laterDays,
		})
	}
}

// DailyUpdateList returns every customer's record for one day. Defaults to
// today when no date is given.
func DailyUpdateList(svc *dailyupdates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := validators.ParseQueryDate(r, "date", time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.ListByDate(r.Context(), date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dailyupdates.NewDailyUpdateResponses(records))
	}
}

// DailyUpdateLedger returns one customer's month of records plus the balance
// carried in from earlier months.
func DailyUpdateLedger(svc *dailyupdates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParseQueryUUID(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		month, err := validators.ParseQueryMonth(r, "month")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCustomerID(ctx, customerID.String())
		}

		opening, records, err := svc.Ledger(ctx, customerID, month)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dailyupdates.LedgerResponse{
			CustomerID:     customerID.String(),
			Month:          month.String(),
			OpeningBalance: opening,
			Entries:        dailyupdates.NewDailyUpdateResponses(records),
		})
	}
}
