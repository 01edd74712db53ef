package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrRequest      = errors.New("request failed")
	ErrUnauthorized = errors.New("unauthorized")
)

type AppError struct {
	Err     error  // sentinel, for errors.Is
	Message string // server-supplied or field-level message; may be empty for request failures
	Field   string // validation only
	Status  int    // HTTP status, 0 for transport failures
	Cause   error  // underlying transport or decode error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%v: %v", e.Err, e.Cause)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%v: status %d", e.Err, e.Status)
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Response builds the error for a non-2xx reply. 401 maps to ErrUnauthorized.
func Response(status int, message string) *AppError {
	sentinel := ErrRequest
	if status == 401 {
		sentinel = ErrUnauthorized
	}
	return &AppError{
		Err:     sentinel,
		Message: message,
		Status:  status,
	}
}

// Transport wraps a failure that happened before any response was read.
func Transport(cause error) *AppError {
	return &AppError{
		Err:   ErrRequest,
		Cause: cause,
	}
}

// MessageOr returns the message carried by err when there is one, else
// fallback. Screens never build error text from raw errors.
func MessageOr(err error, fallback string) string {
	var ae *AppError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}
