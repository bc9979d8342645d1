package handlers

import (
	"net/http"

	"github.com/upb/auth0-gate/app"
	"github.com/upb/auth0-gate/auth0"
	"github.com/upb/auth0-gate/middleware"
	"github.com/upb/auth0-gate/utils"
)

// CurrentUserResponse describes the verified caller
type CurrentUserResponse struct {
	Sub         string   `json:"sub"`
	Audience    []string `json:"aud"`
	Scopes      []string `json:"scopes"`
	Permissions []string `json:"permissions,omitempty"`
	ExpiresAt   int64    `json:"exp,omitempty"`
}

// ListUsersHandler is the sample protected resource
func ListUsersHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteOK(w, map[string]interface{}{
			"a": 1,
			"b": map[string]int{"c": 2},
		})
	}
}

// GetCurrentUserHandler returns the verified claims of the caller
func GetCurrentUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.GetClaimsFromContext(r.Context())
		if claims == nil {
			// only reachable when the route is mounted without RequireAuth
			_ = utils.WriteUnauthorized(w, string(auth0.CodeHeaderMissing), auth0.DescHeaderMissing)
			return
		}

		resp := CurrentUserResponse{
			Sub:         claims.Subject,
			Audience:    claims.Audience,
			Scopes:      claims.Scopes(),
			Permissions: claims.Permissions,
		}
		if claims.ExpiresAt != nil {
			resp.ExpiresAt = claims.ExpiresAt.Unix()
		}
		if resp.Scopes == nil {
			resp.Scopes = []string{}
		}

		_ = utils.WriteOK(w, resp)
	}
}
