package controllers

import (
	"net/http"
	"time"

	"github.com/kanchanlabs/delivery-backend/api/responses"
	"github.com/kanchanlabs/delivery-backend/api/validators"
	"github.com/kanchanlabs/delivery-backend/internal/dashboard"
	"github.com/kanchanlabs/delivery-backend/pkg/logger"
)

// DashboardStats returns the operator's at-a-glance summary. Defaults to
// today when no date is given.
func DashboardStats(svc *dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := validators.ParseQueryDate(r, "date", time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.StatsFor(r.Context(), date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard.NewStatsResponse(stats))
	}
}
