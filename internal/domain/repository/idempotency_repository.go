package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/canteen-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and user ID
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	// Create stores a new idempotency key. It fails if the user already holds
	// the same key, which is what makes a reservation exclusive.
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Complete records the response for a reserved key
	Complete(ctx context.Context, id uuid.UUID, responseCode int, responseBody string, expiresAt time.Time) error
	// Delete releases a key so the request can be sent again
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes expired idempotency keys (for cleanup)
	DeleteExpired(ctx context.Context) error
}
