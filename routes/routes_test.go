package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/upb/auth0-gate/app"
	"github.com/upb/auth0-gate/auth0"
	"github.com/upb/auth0-gate/config"
	"github.com/upb/auth0-gate/middleware"
	"go.uber.org/zap/zaptest"
)

type rejectAllValidator struct{}

func (rejectAllValidator) ValidateToken(context.Context, string) (*auth0.Claims, error) {
	return nil, auth0.NewError(auth0.CodeInvalidHeader, auth0.DescUnparseableToken, nil)
}

func preflight(t *testing.T, handler http.Handler, origin string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodOptions, "/user/", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSetupRoutes_CORSOrigins(t *testing.T) {
	logger := zaptest.NewLogger(t)
	auth := middleware.NewAuthMiddleware(rejectAllValidator{}, logger)

	t.Run("without config uses the config default", func(t *testing.T) {
		handler := SetupRoutes(&app.Dependencies{Logger: logger, AuthMiddleware: auth})

		rec := preflight(t, handler, "http://localhost:3000")
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("configured origins replace the default", func(t *testing.T) {
		cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"https://app.example.com"}}}
		handler := SetupRoutes(&app.Dependencies{Config: cfg, Logger: logger, AuthMiddleware: auth})

		rec := preflight(t, handler, "https://app.example.com")
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

		rec = preflight(t, handler, "http://localhost:3000")
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
