package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	stock := NewInsufficientStockError("Flour", decimal.NewFromInt(600), decimal.NewFromInt(400))

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", NewNotFoundError("Transaction"), http.StatusNotFound},
		{"wrapped validation", fmt.Errorf("create: %w", NewFieldError("lines", "required")), http.StatusUnprocessableEntity},
		{"insufficient stock", stock, http.StatusConflict},
		{"wrapped stock", fmt.Errorf("Missing Flour: %w", stock), http.StatusConflict},
		{"concurrency", &ConcurrencyError{Err: errors.New("deadlock detected")}, http.StatusServiceUnavailable},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetAppError(tt.err).Code)
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "Transaction not found", NewNotFoundError("Transaction").Error())
	assert.Equal(t, "Validation failed: amount must be greater than zero",
		NewFieldError("amount", "must be greater than zero").Error())
	assert.Equal(t, "Insufficient stock for Flour: required 600, available 400",
		NewInsufficientStockError("Flour", decimal.NewFromInt(600), decimal.NewFromInt(400)).Error())
}

func TestPredicates(t *testing.T) {
	conc := &ConcurrencyError{Err: errors.New("could not serialize access")}
	assert.True(t, IsConcurrency(fmt.Errorf("tx: %w", conc)))
	assert.True(t, conc.Retryable())

	assert.True(t, IsNotFound(NewNotFoundError("User")))
	assert.False(t, IsNotFound(NewConflictError("taken")))
	assert.True(t, IsAppError(ErrInvalidCredentials))
	assert.False(t, IsInsufficientStock(errors.New("nope")))
}
