package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/canteen-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		code       int
		retryAfter string
	}{
		{
			name: "out of stock",
			err:  apperror.NewInsufficientStockError("Flour", decimal.NewFromInt(600), decimal.NewFromInt(400)),
			code: http.StatusConflict,
		},
		{
			name:       "lock conflict",
			err:        fmt.Errorf("create transaction: %w", &apperror.ConcurrencyError{Err: errors.New("deadlock detected")}),
			code:       http.StatusServiceUnavailable,
			retryAfter: RetryAfterSeconds,
		},
		{
			name: "not found",
			err:  apperror.NewNotFoundError("Transaction"),
			code: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil)

			Error(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.retryAfter, w.Header().Get("Retry-After"))

			var body APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	c.Request.Header.Set("X-Request-ID", "req-1")

	NotFound(c, "Route not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Route not found", body.Message)
	require.NotNil(t, body.Meta)
	assert.Equal(t, "req-1", body.Meta.RequestID)
}
