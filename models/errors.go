package models

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// UnAuthorizedError is rendered with the http status code 401
	UnAuthorizedError = errors.New("unauthorized")

	// ForbiddenError is rendered with the http status code 403
	ForbiddenError = errors.New("forbidden")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("duplicate value")
)

// ConfigurationError is returned before any network call when the enrichment
// service credential is missing. Rendered with the http status code 501.
var ConfigurationError = errors.New("enrichment service is not configured")

// StorageError wraps any failure of a cache tier. It is logged and never returned
// to the caller of a resolution.
var StorageError = errors.New("cache storage error")

var ErrUnknownApiKey = errors.Wrap(UnAuthorizedError, "unknown api key")

// RemoteApiError is the raw error payload of a non-2xx response from the
// enrichment service.
type RemoteApiError struct {
	StatusCode int
	Message    string
	Type       string
}

func (e *RemoteApiError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("enrichment service returned status %d (%s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("enrichment service returned status %d: %s", e.StatusCode, e.Message)
}

// IsNoMatch is true when the service reports that no record matches the query.
func (e *RemoteApiError) IsNoMatch() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *RemoteApiError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

func (e *RemoteApiError) IsServiceFailure() bool {
	return e.StatusCode >= 500
}
