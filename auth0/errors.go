package auth0

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable reason attached to a rejected request
type Code string

const (
	CodeHeaderMissing Code = "authorization_header_missing"
	CodeInvalidHeader Code = "invalid_header"
	CodeTokenExpired  Code = "token_expired"
	CodeInvalidClaims Code = "invalid_claims"
	CodeInternal      Code = "internal_error"
)

// Rejection descriptions returned to callers
const (
	DescHeaderMissing     = "Authorization header is expected"
	DescMustStartBearer   = "Authorization header must start with Bearer"
	DescTokenNotFound     = "Token not found"
	DescMustBeBearerToken = "Authorization header must be Bearer token"
	DescUnparseableToken  = "Unable to parse authentication token."
	DescTokenExpired      = "token is expired"
	DescInvalidClaims     = "incorrect claims, please check the audience and issuer"
	DescInternal          = "Internal server error"
)

var (
	// ErrKeySetFetchFailed is returned when the JWKS document cannot be retrieved or decoded
	ErrKeySetFetchFailed = errors.New("failed to fetch JWKS")

	// ErrKeyNotFound is returned when no published key matches the token's kid
	ErrKeyNotFound = errors.New("signing key not found in JWKS")
)

// Error is a classified validation failure. Expected failures carry one of the
// 401 codes; anything else is CodeInternal.
type Error struct {
	Code        Code
	Description string
	Err         error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the code to the HTTP status sent to the caller
func (e *Error) Status() int {
	if e.Code == CodeInternal {
		return http.StatusInternalServerError
	}
	return http.StatusUnauthorized
}

// NewError creates a classified error
func NewError(code Code, description string, cause error) *Error {
	return &Error{Code: code, Description: description, Err: cause}
}

// Internal wraps an unexpected fault. The description is generic on purpose;
// the cause is kept only for server-side logs.
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Description: DescInternal, Err: cause}
}

// AsError classifies any error. Errors that are not *Error become internal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr
	}
	return Internal(err)
}
