package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the common failure classes. Wrap these (or return an
// AppError carrying them) so callers can branch with errors.Is.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrAlreadyExists     = errors.New("resource already exists")
	ErrInvalidInput      = errors.New("invalid input")
	ErrImmutableField    = errors.New("immutable field")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrTransientConflict = errors.New("transient conflict")
	ErrInternal          = errors.New("internal error")
)

// AppError is a structured application error with an HTTP status mapping and
// optional machine-readable details for the response body.
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Status  int            `json:"-"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error for a missing resource.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// ImmutableField creates a 400 error for an attempt to change a field that is
// fixed after creation.
func ImmutableField(field string) *AppError {
	return &AppError{
		Code:    "IMMUTABLE_FIELD",
		Message: fmt.Sprintf("field %q cannot be changed after creation", field),
		Status:  http.StatusBadRequest,
		Err:     ErrImmutableField,
	}
}

// InsufficientStock creates a 409 error for a stock reservation that would
// drive a variant's counter below zero. available is the best-effort remaining
// quantity at the time of failure; pass -1 when it could not be determined.
func InsufficientStock(variantID string, available int) *AppError {
	msg := fmt.Sprintf("insufficient stock for variant %s", variantID)
	details := map[string]any{"variant_id": variantID}
	if available >= 0 {
		msg = fmt.Sprintf("%s: %d available", msg, available)
		details["available"] = available
	}
	return &AppError{
		Code:    "INSUFFICIENT_STOCK",
		Message: msg,
		Details: details,
		Status:  http.StatusConflict,
		Err:     ErrInsufficientStock,
	}
}

// RetriesExhausted creates a 409 error for an operation that kept hitting
// transient storage conflicts until the retry budget ran out.
func RetriesExhausted(operation string, attempts int, last error) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: fmt.Sprintf("%s failed after %d attempts due to concurrent updates", operation, attempts),
		Details: map[string]any{"attempts": attempts},
		Status:  http.StatusConflict,
		Err:     fmt.Errorf("%w: %w", ErrTransientConflict, last),
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrTransientConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrImmutableField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
