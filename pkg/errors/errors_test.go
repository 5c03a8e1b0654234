package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("order", "order-123")

	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Message, "order-123")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("quantity must be at least 1")

	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestImmutableField(t *testing.T) {
	err := ImmutableField("variant_id")

	assert.Equal(t, "IMMUTABLE_FIELD", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Contains(t, err.Message, "variant_id")
	assert.ErrorIs(t, err, ErrImmutableField)
}

func TestInsufficientStock(t *testing.T) {
	err := InsufficientStock("var-1", 2)

	assert.Equal(t, "INSUFFICIENT_STOCK", err.Code)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Contains(t, err.Message, "2 available")
	assert.Equal(t, 2, err.Details["available"])
	assert.Equal(t, "var-1", err.Details["variant_id"])
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestInsufficientStock_UnknownAvailable(t *testing.T) {
	err := InsufficientStock("var-1", -1)

	assert.NotContains(t, err.Message, "available")
	_, ok := err.Details["available"]
	assert.False(t, ok)
}

func TestRetriesExhausted(t *testing.T) {
	cause := errors.New("serialization failure")
	err := RetriesExhausted("create order line", 3, cause)

	assert.Equal(t, "CONFLICT", err.Code)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Contains(t, err.Message, "3 attempts")
	assert.ErrorIs(t, err, ErrTransientConflict)
	assert.ErrorIs(t, err, cause)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", InsufficientStock("v", 0), http.StatusConflict},
		{"wrapped not found", fmt.Errorf("get order: %w", ErrNotFound), http.StatusNotFound},
		{"wrapped invalid input", fmt.Errorf("create: %w", ErrInvalidInput), http.StatusBadRequest},
		{"wrapped immutable field", fmt.Errorf("update: %w", ErrImmutableField), http.StatusBadRequest},
		{"wrapped insufficient stock", fmt.Errorf("reserve: %w", ErrInsufficientStock), http.StatusConflict},
		{"wrapped transient conflict", fmt.Errorf("tx: %w", ErrTransientConflict), http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestAppError_ErrorString(t *testing.T) {
	err := Internal(errors.New("db down"))
	assert.Contains(t, err.Error(), "INTERNAL_ERROR")
	assert.Contains(t, err.Error(), "db down")
}
