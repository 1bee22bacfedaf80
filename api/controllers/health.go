package controllers

import (
	"net/http"

	"github.com/kanchanlabs/delivery-backend/api/responses"
	"github.com/kanchanlabs/delivery-backend/pkg/config"
	"github.com/kanchanlabs/delivery-backend/pkg/db"
	pkgerrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
	"github.com/kanchanlabs/delivery-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Kanchan-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, database db.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Kanchan-Env", cfg.App.Env)
		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
