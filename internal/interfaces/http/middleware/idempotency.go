package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// IdempotencyHeaderKey is the header clients send to deduplicate retried requests.
const IdempotencyHeaderKey = "Idempotency-Key"

// DefaultIdempotencyTTL bounds how long a processed key blocks replays.
const DefaultIdempotencyTTL = 24 * time.Hour

// Idempotency rejects a request whose Idempotency-Key was already consumed
// by a successful response within the TTL. Failed requests leave the key
// unconsumed so the client can retry. Requests without the header pass
// through unchanged. Keys are scoped per organization so tenants cannot
// collide.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeaderKey)
		if key == "" {
			c.Next()
			return
		}

		orgID := GetOrgID(c)
		scoped := fmt.Sprintf("%s:%s:%s", orgID.String(), c.FullPath(), key)

		processed, err := store.IsProcessed(c.Request.Context(), scoped)
		if err != nil {
			// Store unavailability must not block writes; the request
			// simply loses replay protection.
			c.Next()
			return
		}
		if processed {
			requestID := c.GetString(RequestIDKey)
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponse("DUPLICATE_REQUEST", "Request with this idempotency key was already processed", requestID))
			return
		}

		c.Next()

		// Only a committed request consumes the key. A rejected or failed
		// attempt stays retryable with the same key.
		if status := c.Writer.Status(); status >= 200 && status < 300 {
			_, _ = store.MarkProcessed(c.Request.Context(), scoped, ttl)
		}
	}
}
