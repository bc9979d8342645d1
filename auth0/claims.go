package auth0

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the verified payload of an Auth0 access token
type Claims struct {
	jwt.RegisteredClaims
	Scope           string   `json:"scope,omitempty"`
	AuthorizedParty string   `json:"azp,omitempty"`
	Permissions     []string `json:"permissions,omitempty"`
}

// Scopes splits the space-delimited scope claim
func (c *Claims) Scopes() []string {
	if c == nil || c.Scope == "" {
		return nil
	}
	return strings.Fields(c.Scope)
}

// HasScope checks if the scope claim contains the given value
func (c *Claims) HasScope(scope string) bool {
	for _, s := range c.Scopes() {
		if s == scope {
			return true
		}
	}
	return false
}
