package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the single rejection schema returned by the gateway
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 OK response with the given body
func WriteOK(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteError writes an ErrorResponse with the given status
func WriteError(w http.ResponseWriter, status int, code, message string) error {
	w.Header().Set("Cache-Control", "no-store")
	return WriteJSON(w, status, ErrorResponse{
		ErrorCode: code,
		Message:   message,
	})
}

// WriteUnauthorized writes a 401 Unauthorized response. RFC 6750 requires
// the WWW-Authenticate challenge on bearer-protected resources.
func WriteUnauthorized(w http.ResponseWriter, code, message string) error {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	return WriteError(w, http.StatusUnauthorized, code, message)
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return WriteError(w, http.StatusNotFound, "not_found", message)
}

// WriteInternalServerError writes a 500 Internal Server Error response
func WriteInternalServerError(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return WriteError(w, http.StatusInternalServerError, "internal_error", message)
}
