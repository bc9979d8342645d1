package app

import (
	"context"

	"github.com/upb/auth0-gate/auth0"
	"github.com/upb/auth0-gate/config"
	"github.com/upb/auth0-gate/middleware"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Auth
	KeySetFetcher  auth0.KeySetFetcher
	Verifier       *auth0.Verifier
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	deps.initAuth(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initAuth builds the validation pipeline: fetcher, optional cache, verifier, gate
func (d *Dependencies) initAuth(cfg *config.Config) {
	httpFetcher := auth0.NewHTTPKeySetFetcher(cfg.Auth.JWKSURL(), cfg.Auth.JWKSTimeout, nil)

	var fetcher auth0.KeySetFetcher = httpFetcher
	if cfg.Auth.JWKSCacheTTL > 0 {
		fetcher = auth0.NewCachingKeySetFetcher(httpFetcher, cfg.Auth.JWKSCacheTTL)
		d.Logger.Info("jwks cache enabled", zap.Duration("ttl", cfg.Auth.JWKSCacheTTL))
	}

	d.KeySetFetcher = fetcher
	d.Verifier = auth0.NewVerifier(auth0.Config{
		Issuer:   cfg.Auth.Issuer(),
		Audience: cfg.Auth.Audience,
		Fetcher:  fetcher,
		Leeway:   cfg.Auth.ClockSkew,
	})
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Verifier, d.Logger)

	d.Logger.Info("auth pipeline initialized",
		zap.String("jwks_url", httpFetcher.URL()),
		zap.String("issuer", cfg.Auth.Issuer()),
		zap.String("audience", cfg.Auth.Audience))
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	return nil
}
