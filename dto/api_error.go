package dto

type APIErrorResponse struct {
	Message   string    `json:"message"`
	ErrorCode ErrorCode `json:"error_code"`
	Details   []string  `json:"details,omitempty"`
}

type ErrorCode string

const (
	ErrorCodeInvalidPayload        ErrorCode = "invalid_payload"
	ErrorCodeUnauthorized          ErrorCode = "unauthorized"
	ErrorCodeForbidden             ErrorCode = "forbidden"
	ErrorCodeNotFound              ErrorCode = "not_found"
	ErrorCodeConflict              ErrorCode = "conflict"
	ErrorCodeNotConfigured         ErrorCode = "enrichment_not_configured"
	ErrorCodeEnrichmentRejected    ErrorCode = "enrichment_request_rejected"
	ErrorCodeEnrichmentUnavailable ErrorCode = "enrichment_service_unavailable"
	ErrorCodeInternalServerError   ErrorCode = "internal_server_error"
)
