package controllers

import (
	"net/http"

	"github.com/photoshare/backend/api/responses"
	"github.com/photoshare/backend/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PhotoShare-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports dependency health: a degraded Redis still serves the
// feed from the database, so only DB failures mark the API not ready.
func HealthReady(cfg *config.Config, db Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PhotoShare-Env", cfg.App.Env)

		status := map[string]string{"status": "ready", "db": "ok", "cache": "ok"}
		httpStatus := http.StatusOK

		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				status["status"] = "not_ready"
				status["db"] = "unreachable"
				httpStatus = http.StatusServiceUnavailable
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				status["cache"] = "unreachable"
			}
		}

		responses.WriteSuccessStatus(w, httpStatus, status)
	}
}
