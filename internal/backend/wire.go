package backend

import (
	"fmt"
	"net/http"

	"serviceflow/internal/domain"
)

// API paths.
const (
	PathAccounts       = "/accounts"
	PathCurrent        = "/geocode/current"
	PathReverse        = "/geocode/reverse"
	PathSearch         = "/geocode/search"
	PathHealth         = "/health"
	maxErrorBodyBytes  = 64 << 10
	defaultContentType = "application/json"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeAccountExists    = "ACCOUNT_EXISTS"
	CodeValidation       = "VALIDATION_FAILED"
	CodePermissionDenied = "GEOLOCATION_DENIED"
	CodeNoResults        = "NO_RESULTS"
	CodeBadRequest       = "BAD_REQUEST"
	CodeInternal         = "INTERNAL"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   ErrorResponse
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("backend %s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	if e.Body.Message != "" {
		msg += ": " + e.Body.Message
	}
	return msg
}

// Unwrap maps the status to a domain error so callers can use errors.Is.
func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusConflict:
		return domain.ErrAccountExists
	case http.StatusForbidden:
		return domain.ErrPermissionDenied
	case http.StatusNotFound:
		if e.Body.Code == CodeNoResults {
			return domain.ErrNoResults
		}
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return &domain.RejectedError{Message: e.Body.Message}
	}
	return nil
}
