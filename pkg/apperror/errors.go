package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%s: %s %s", e.Message, e.Errors[0].Field, e.Errors[0].Message)
	}
	return e.Message
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden      = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable  = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
	ErrInvalidToken   = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}

	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid username or password"}
	ErrInactiveAccount    = &AppError{Code: http.StatusForbidden, Message: "Account is disabled"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewFieldError is shorthand for a validation error on a single field
func NewFieldError(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// InsufficientStockError is returned when an ingredient or pre-made item
// cannot cover the requested quantity.
type InsufficientStockError struct {
	Item      string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s: required %s, available %s",
		e.Item, e.Required.String(), e.Available.String())
}

// NewInsufficientStockError creates an insufficient stock error
func NewInsufficientStockError(item string, required, available decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{Item: item, Required: required, Available: available}
}

// ConcurrencyError wraps a lock wait, deadlock or serialization failure
// reported by the database. The whole operation was rolled back and may be
// retried by the caller.
type ConcurrencyError struct {
	Err error
}

func (e *ConcurrencyError) Error() string {
	return "concurrent update conflict, please retry: " + e.Err.Error()
}

func (e *ConcurrencyError) Unwrap() error {
	return e.Err
}

// Retryable reports that the failed operation can be submitted again.
func (e *ConcurrencyError) Retryable() bool {
	return true
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsInsufficientStock checks if an error is an InsufficientStockError
func IsInsufficientStock(err error) bool {
	var stockErr *InsufficientStockError
	return errors.As(err, &stockErr)
}

// IsConcurrency checks if an error is a ConcurrencyError
func IsConcurrency(err error) bool {
	var concErr *ConcurrencyError
	return errors.As(err, &concErr)
}

// IsNotFound checks if an error is a 404 AppError
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusNotFound
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return &AppError{Code: http.StatusConflict, Message: stockErr.Error()}
	}
	var concErr *ConcurrencyError
	if errors.As(err, &concErr) {
		return &AppError{Code: http.StatusServiceUnavailable, Message: "Concurrent update conflict, please retry"}
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
