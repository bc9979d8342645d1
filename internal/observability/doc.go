// Package observability provides structured logging for the gateway.
//
// Loggers are zap-based. Request-scoped fields (request_id, path, code) are
// added by the middleware that owns the request.
package observability
