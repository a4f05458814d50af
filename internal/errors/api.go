package errors

import (
	"errors"
	"fmt"
)

// ApiError carries the HTTP status and the server-provided error message of a
// failed API request. Listing-phase occurrences abort the run; per-record
// occurrences abort only that record.
type ApiError struct {
	StatusCode int    `json:"code"`
	Message    string `json:"message"`
}

func NewApiError(statusCode int, message string) *ApiError {
	if message == "" {
		message = "Unknown error"
	}
	return &ApiError{StatusCode: statusCode, Message: message}
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// AsApiError reports whether err (or anything it wraps) is an ApiError.
func AsApiError(err error) (*ApiError, bool) {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
