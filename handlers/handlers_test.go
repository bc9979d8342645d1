package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/auth0-gate/app"
	"github.com/upb/auth0-gate/auth0"
	"github.com/upb/auth0-gate/middleware"
	"go.uber.org/zap"
)

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(&app.Dependencies{})(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadinessCheck(t *testing.T) {
	tests := []struct {
		name    string
		fetcher auth0.KeySetFetcher
		status  int
		jwks    string
	}{
		{
			name: "healthy key set",
			fetcher: auth0.FetcherFunc(func(context.Context) (*auth0.KeySet, error) {
				return &auth0.KeySet{Keys: []auth0.KeyRecord{{Kid: "k"}}}, nil
			}),
			status: http.StatusOK,
			jwks:   "healthy",
		},
		{
			name: "empty key set",
			fetcher: auth0.FetcherFunc(func(context.Context) (*auth0.KeySet, error) {
				return &auth0.KeySet{}, nil
			}),
			status: http.StatusServiceUnavailable,
			jwks:   "empty",
		},
		{
			name: "unreachable",
			fetcher: auth0.FetcherFunc(func(context.Context) (*auth0.KeySet, error) {
				return nil, errors.New("connection refused")
			}),
			status: http.StatusServiceUnavailable,
			jwks:   "unreachable",
		},
		{
			name:   "not initialized",
			status: http.StatusServiceUnavailable,
			jwks:   "not_initialized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := &app.Dependencies{Logger: zap.NewNop(), KeySetFetcher: tt.fetcher}
			rec := httptest.NewRecorder()

			ReadinessCheck(deps)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.status, rec.Code)
			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.jwks, body.Checks["jwks"])
			if tt.status == http.StatusOK {
				assert.Equal(t, "ready", body.Status)
			} else {
				assert.Equal(t, "not_ready", body.Status)
			}
		})
	}
}

func TestListUsersHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	ListUsersHandler(&app.Dependencies{})(rec, httptest.NewRequest(http.MethodGet, "/user/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"a":1,"b":{"c":2}}`, rec.Body.String())
}

func TestGetCurrentUserHandler(t *testing.T) {
	deps := &app.Dependencies{Logger: zap.NewNop()}

	t.Run("returns verified claims", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		claims := &auth0.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "auth0|user-123",
				Audience:  jwt.ClaimStrings{"https://api.example.com"},
				ExpiresAt: jwt.NewNumericDate(exp),
			},
			Scope:       "read:users openid",
			Permissions: []string{"read:users"},
		}

		req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
		req = req.WithContext(middleware.WithClaims(req.Context(), claims))
		rec := httptest.NewRecorder()

		GetCurrentUserHandler(deps)(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body CurrentUserResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "auth0|user-123", body.Sub)
		assert.Equal(t, []string{"https://api.example.com"}, body.Audience)
		assert.Equal(t, []string{"read:users", "openid"}, body.Scopes)
		assert.Equal(t, []string{"read:users"}, body.Permissions)
		assert.Equal(t, exp.Unix(), body.ExpiresAt)
	})

	t.Run("returns 401 when claims missing in context", func(t *testing.T) {
		rec := httptest.NewRecorder()

		GetCurrentUserHandler(deps)(rec, httptest.NewRequest(http.MethodGet, "/user/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
