package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/auth0-gate/app"
	"github.com/upb/auth0-gate/utils"
	"go.uber.org/zap"
)

// HealthCheck returns a simple health check handler
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteOK(w, map[string]string{"status": "ok"})
	}
}

// ReadinessCheck reports ready only when the identity provider's key set can be fetched
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		status, httpStatus := "ready", http.StatusOK

		switch {
		case deps.KeySetFetcher == nil:
			checks["jwks"] = "not_initialized"
		default:
			keySet, err := deps.KeySetFetcher.FetchKeySet(ctx)
			switch {
			case err != nil:
				checks["jwks"] = "unreachable"
				deps.Logger.Warn("jwks readiness check failed", zap.Error(err))
			case keySet == nil || len(keySet.Keys) == 0:
				checks["jwks"] = "empty"
			default:
				checks["jwks"] = "healthy"
			}
		}

		if checks["jwks"] != "healthy" {
			status, httpStatus = "not_ready", http.StatusServiceUnavailable
		}

		_ = utils.WriteJSON(w, httpStatus, map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	}
}
