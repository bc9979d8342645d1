package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/upb/auth0-gate/auth0"
	"github.com/upb/auth0-gate/utils"
	"go.uber.org/zap"
)

// TokenValidator defines the interface for validating JWT tokens
type TokenValidator interface {
	// ValidateToken validates a JWT token and returns claims.
	// Expected failures are returned as *auth0.Error; anything else is treated as internal.
	ValidateToken(ctx context.Context, token string) (*auth0.Claims, error)
}

// Decision is the outcome of authorizing one request. Exactly one of
// Request and Rejection is set.
type Decision struct {
	// Request is the admitted request with claims attached to its context
	Request *http.Request
	Claims  *auth0.Claims

	Rejection *auth0.Error
}

// Admitted reports whether the request may proceed
func (d Decision) Admitted() bool {
	return d.Rejection == nil && d.Request != nil
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// Authorize runs header extraction and token verification for r without
// writing a response. It never panics.
func (m *AuthMiddleware) Authorize(r *http.Request) (decision Decision) {
	defer func() {
		if rec := recover(); rec != nil {
			decision = Decision{Rejection: auth0.Internal(fmt.Errorf("panic during token validation: %v", rec))}
		}
	}()

	token, err := ExtractBearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return Decision{Rejection: auth0.AsError(err)}
	}

	ctx := r.Context()
	claims, err := m.validator.ValidateToken(ctx, token)
	if err != nil {
		return Decision{Rejection: auth0.AsError(err)}
	}
	if claims == nil {
		return Decision{Rejection: auth0.Internal(errors.New("validator returned no claims"))}
	}

	return Decision{
		Request: r.WithContext(WithClaims(ctx, claims)),
		Claims:  claims,
	}
}

// RequireAuth is a middleware that requires a valid bearer token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := m.Authorize(r)
		if !decision.Admitted() {
			m.reject(w, r, decision.Rejection)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", GetRequestIDFromContext(r.Context())),
			zap.String("sub", decision.Claims.Subject))

		next.ServeHTTP(w, decision.Request)
	})
}

// reject writes the structured rejection. Internal failures are logged in
// full and reported to the caller without detail.
func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, rejection *auth0.Error) {
	requestID := GetRequestIDFromContext(r.Context())

	if rejection == nil || rejection.Status() == http.StatusInternalServerError {
		var cause error
		if rejection != nil {
			cause = rejection.Err
		}
		m.logger.Error("token validation failed unexpectedly",
			zap.String("request_id", requestID),
			zap.String("path", r.URL.Path),
			zap.Error(cause))
		_ = utils.WriteInternalServerError(w, auth0.DescInternal)
		return
	}

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("path", r.URL.Path),
		zap.String("code", string(rejection.Code)),
	}
	if rejection.Err != nil {
		fields = append(fields, zap.Error(rejection.Err))
	}
	m.logger.Warn("request rejected", fields...)

	_ = utils.WriteUnauthorized(w, string(rejection.Code), rejection.Description)
}
