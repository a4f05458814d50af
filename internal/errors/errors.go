package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the error value used across the exporter. Id is a stable,
// dot-separated identifier; DetailedError is the human-readable message.
type AppError struct {
	Id            string `json:"id"`
	Status        string `json:"status"`
	DetailedError string `json:"detail"`
	StatusCode    int    `json:"code,omitempty"`

	cause error
}

type Option func(*AppError)

func WithCause(err error) Option {
	return func(e *AppError) { e.cause = err }
}

func WithStatusCode(code int) Option {
	return func(e *AppError) {
		e.StatusCode = code
		e.Status = http.StatusText(code)
	}
}

func New(detail string, opts ...Option) *AppError {
	err := &AppError{
		Id:            "equipment_exporter.app_error",
		DetailedError: detail,
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

func NewWithId(id, detail string, opts ...Option) *AppError {
	err := New(detail, opts...)
	err.Id = id
	return err
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s]: %s: %s", e.Id, e.DetailedError, e.cause.Error())
	}
	return fmt.Sprintf("[%s]: %s", e.Id, e.DetailedError)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func (e *AppError) GetId() string {
	return e.Id
}

func (e *AppError) GetStatusCode() int {
	return e.StatusCode
}

// NewAuthMissingError is the fatal precondition error raised when the bearer
// token cannot be loaded; no API call may be issued without it.
func NewAuthMissingError(detail string, opts ...Option) *AppError {
	err := NewWithId("auth.token_missing", detail, opts...)
	if err.StatusCode == 0 {
		WithStatusCode(http.StatusUnauthorized)(err)
	}
	return err
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
