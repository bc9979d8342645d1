package middleware

import (
	"strings"

	"github.com/upb/auth0-gate/auth0"
)

// ExtractBearerToken parses an Authorization header value into its token.
// The header must be exactly "Bearer <token>"; the scheme is case-insensitive.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", auth0.NewError(auth0.CodeHeaderMissing, auth0.DescHeaderMissing, nil)
	}

	parts := strings.Fields(header)
	switch {
	case len(parts) == 0 || !strings.EqualFold(parts[0], "bearer"):
		return "", auth0.NewError(auth0.CodeInvalidHeader, auth0.DescMustStartBearer, nil)
	case len(parts) == 1:
		return "", auth0.NewError(auth0.CodeInvalidHeader, auth0.DescTokenNotFound, nil)
	case len(parts) > 2:
		return "", auth0.NewError(auth0.CodeInvalidHeader, auth0.DescMustBeBearerToken, nil)
	}

	return parts[1], nil
}
