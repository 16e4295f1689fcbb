package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidBaseURL indicates the configured base URL could not be parsed
	ErrInvalidBaseURL = errors.New("apiclient.invalid_base_url")

	// ErrRequestFailed indicates the request never produced an HTTP response
	ErrRequestFailed = errors.New("apiclient.request_failed")

	// ErrDecodeResponse indicates a success response body could not be decoded
	ErrDecodeResponse = errors.New("apiclient.decode_response")
)

// Error is the fixed error envelope every non-2xx response is normalized
// into at the client boundary. Callers branch on its fields instead of
// re-parsing transport failures.
type Error struct {
	// StatusCode is the HTTP status of the failed response
	StatusCode int `json:"status_code"`

	// Message is the server-provided human-readable message, or the status
	// text when the server sent none
	Message string `json:"message"`

	// RetryAfterSeconds carries the Retry-After hint of a rate-limited
	// response, zero when absent. Preserved verbatim so the UI can render a
	// countdown.
	RetryAfterSeconds int `json:"retry_after_seconds,omitempty"`

	// FieldErrors holds per-field validation messages keyed by field name
	FieldErrors map[string][]string `json:"field_errors,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited reports whether the error is a 429 response.
func (e *Error) IsRateLimited() bool {
	return e != nil && e.StatusCode == http.StatusTooManyRequests
}

// AsError extracts the *Error envelope from err, if present.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsRateLimited reports whether err is a 429 API error.
func IsRateLimited(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.IsRateLimited()
}

// IsUnauthorized reports whether err is a 401 API error.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}
