package auth0

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningAlgorithm is the only algorithm tokens may be signed with
const SigningAlgorithm = "RS256"

// Config holds configuration for Verifier
type Config struct {
	Issuer   string
	Audience string
	Fetcher  KeySetFetcher
	Leeway   time.Duration
}

// Verifier validates Auth0-issued JWTs against the tenant's published keys
type Verifier struct {
	issuer   string
	audience string
	fetcher  KeySetFetcher
	parser   *jwt.Parser
}

// NewVerifier creates a new Verifier
func NewVerifier(config Config) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{SigningAlgorithm}),
		jwt.WithAudience(config.Audience),
		jwt.WithIssuer(config.Issuer),
		jwt.WithExpirationRequired(),
	}
	if config.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(config.Leeway))
	}

	return &Verifier{
		issuer:   config.Issuer,
		audience: config.Audience,
		fetcher:  config.Fetcher,
		parser:   jwt.NewParser(opts...),
	}
}

// ValidateToken verifies the token and returns its claims. Every failure is an *Error.
func (v *Verifier) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	// The header is read without trust, only to choose a key
	unverified, _, err := jwt.NewParser().ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, NewError(CodeInvalidHeader, DescUnparseableToken, err)
	}
	if alg, _ := unverified.Header["alg"].(string); alg != SigningAlgorithm {
		return nil, NewError(CodeInvalidHeader, DescUnparseableToken,
			fmt.Errorf("unexpected signing method: %v", unverified.Header["alg"]))
	}
	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return nil, NewError(CodeInvalidHeader, DescUnparseableToken, errors.New("kid header not found"))
	}

	keySet, err := v.fetcher.FetchKeySet(ctx)
	if err != nil {
		return nil, Internal(err)
	}

	record, ok := keySet.Lookup(kid)
	if refresher, canRefresh := v.fetcher.(KeySetRefresher); !ok && canRefresh {
		// a held key set may predate a signing key rotation
		if keySet, err = refresher.RefreshKeySet(ctx); err != nil {
			return nil, Internal(err)
		}
		record, ok = keySet.Lookup(kid)
	}
	if !ok {
		return nil, NewError(CodeInvalidHeader, DescUnparseableToken, fmt.Errorf("%w: kid %s", ErrKeyNotFound, kid))
	}

	token, err := v.parser.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return record.RSAPublicKey()
	})
	if err != nil {
		return nil, classify(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, NewError(CodeInvalidHeader, DescUnparseableToken, errors.New("token is not valid"))
	}

	return claims, nil
}

// classify maps parser errors onto rejection codes. Signature verification
// runs before claims validation, so claim errors imply a valid signature.
func classify(err error) *Error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return NewError(CodeTokenExpired, DescTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenInvalidClaims):
		return NewError(CodeInvalidClaims, DescInvalidClaims, err)
	default:
		return NewError(CodeInvalidHeader, DescUnparseableToken, err)
	}
}

// Issuer returns the expected iss claim
func (v *Verifier) Issuer() string {
	return v.issuer
}

// Audience returns the expected aud claim
func (v *Verifier) Audience() string {
	return v.audience
}
