package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/auth0-gate/auth0"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		code   auth0.Code
		desc   string
	}{
		{name: "missing header", header: "", code: auth0.CodeHeaderMissing, desc: auth0.DescHeaderMissing},
		{name: "basic scheme", header: "Basic abc", code: auth0.CodeInvalidHeader, desc: auth0.DescMustStartBearer},
		{name: "scheme only", header: "Bearer", code: auth0.CodeInvalidHeader, desc: auth0.DescTokenNotFound},
		{name: "extra part", header: "Bearer a b", code: auth0.CodeInvalidHeader, desc: auth0.DescMustBeBearerToken},
		{name: "scheme check runs before part count", header: "Token", code: auth0.CodeInvalidHeader, desc: auth0.DescMustStartBearer},
		{name: "valid", header: "Bearer abc.def.ghi", token: "abc.def.ghi"},
		{name: "lower case scheme", header: "bearer abc", token: "abc"},
		{name: "upper case scheme", header: "BEARER abc", token: "abc"},
		{name: "extra whitespace between parts", header: "Bearer \t abc", token: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ExtractBearerToken(tt.header)
			if tt.code == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.token, token)
				return
			}

			require.Error(t, err)
			assert.Empty(t, token)
			authErr := auth0.AsError(err)
			assert.Equal(t, tt.code, authErr.Code)
			assert.Equal(t, tt.desc, authErr.Description)
		})
	}
}
