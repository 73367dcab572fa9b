package errors

import (
	"net/http"
)

// APIError is the error type every handler and service returns. Status drives
// the HTTP response, Kind is the stable machine-readable identifier clients
// match on, Internal carries the wrapped cause and is only logged.
type APIError struct {
	Status   int    `json:"-"`
	Kind     string `json:"kind"`
	Message  string `json:"error"`
	Internal error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Internal
}

func newAPIError(status int, kind, message string, internal error) *APIError {
	return &APIError{
		Status:   status,
		Kind:     kind,
		Message:  message,
		Internal: internal,
	}
}

func Validation(message string, internal error) *APIError {
	return newAPIError(http.StatusBadRequest, "validation", message, internal)
}

func Unauthorized(message string, internal error) *APIError {
	return newAPIError(http.StatusUnauthorized, "unauthorized", message, internal)
}

func Forbidden(message string, internal error) *APIError {
	return newAPIError(http.StatusForbidden, "forbidden", message, internal)
}

func NotFound(message string, internal error) *APIError {
	return newAPIError(http.StatusNotFound, "not_found", message, internal)
}

func Conflict(message string, internal error) *APIError {
	return newAPIError(http.StatusConflict, "conflict", message, internal)
}

// Upstream marks a failure in an external collaborator (photo host, mail relay).
func Upstream(message string, internal error) *APIError {
	return newAPIError(http.StatusBadGateway, "upstream", message, internal)
}

func Internal(err error) *APIError {
	return newAPIError(http.StatusInternalServerError, "internal", "Internal server error", err)
}
