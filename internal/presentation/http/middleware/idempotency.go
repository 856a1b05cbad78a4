package middleware

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/sangkips/canteen-api/internal/domain/repository"
	"github.com/sangkips/canteen-api/internal/presentation/http/dto/response"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
	// IdempotencyPendingTTL bounds how long a reservation survives a request
	// that never finished
	IdempotencyPendingTTL = 5 * time.Minute
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a till retries a request with
// an Idempotency-Key it already used. The key is reserved before the handler
// runs, so a retry that arrives while the first attempt is still in flight is
// turned away instead of ringing up the sale again. Only successful responses
// are kept; a sale rejected for stock or a lock conflict releases the key and
// can be retried.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		userID, ok := c.Get(ContextUserID)
		if !ok {
			c.Next()
			return
		}
		uid, ok := userID.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		ctx := context.WithoutCancel(c.Request.Context())
		endpoint := c.Request.Method + " " + c.FullPath()

		existing, err := config.Repo.GetByKey(ctx, key, uid)
		if err != nil {
			log.Printf("Idempotency lookup failed for key %s: %v", key, err)
			c.Next()
			return
		}
		if existing != nil {
			if !existing.IsExpired() {
				respondWithKey(c, existing, endpoint)
				return
			}
			if err := config.Repo.Delete(ctx, existing.ID); err != nil {
				log.Printf("Failed to release expired idempotency key %s: %v", key, err)
			}
		}

		reservation := &entity.IdempotencyKey{
			Key:       key,
			UserID:    uid,
			Endpoint:  endpoint,
			ExpiresAt: time.Now().Add(IdempotencyPendingTTL),
		}
		if err := config.Repo.Create(ctx, reservation); err != nil {
			// Another request holds the key now.
			holder, lookupErr := config.Repo.GetByKey(ctx, key, uid)
			if lookupErr != nil || holder == nil {
				log.Printf("Failed to reserve idempotency key %s: %v", key, err)
				c.Header("Retry-After", response.RetryAfterSeconds)
				response.ErrorWithCode(c, http.StatusServiceUnavailable, "Could not reserve Idempotency-Key, please retry")
				c.Abort()
				return
			}
			respondWithKey(c, holder, endpoint)
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			if err := config.Repo.Delete(ctx, reservation.ID); err != nil {
				log.Printf("Failed to release idempotency key %s: %v", key, err)
			}
			return
		}

		if err := config.Repo.Complete(ctx, reservation.ID, status, blw.body.String(), time.Now().Add(IdempotencyKeyTTL)); err != nil {
			log.Printf("Failed to store idempotency key %s: %v", key, err)
		}
	}
}

// respondWithKey answers a request whose key is already taken
func respondWithKey(c *gin.Context, existing *entity.IdempotencyKey, endpoint string) {
	defer c.Abort()
	switch {
	case existing.Endpoint != endpoint:
		response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used for a different request")
	case existing.IsPending():
		c.Header("Retry-After", response.RetryAfterSeconds)
		response.ErrorWithCode(c, http.StatusConflict, "A request with this Idempotency-Key is still being processed")
	default:
		c.Header("X-Idempotency-Replayed", "true")
		c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
	}
}
