package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/doaddy/backend/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func idempotencyTestRouter(t *testing.T) (*gin.Engine, *cache.InMemoryIdempotencyStore) {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(OrgIDKey, uuid.MustParse("00000000-0000-0000-0000-000000000001"))
		c.Next()
	})
	router.POST("/sales", Idempotency(store, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return router, store
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	router, _ := idempotencyTestRouter(t)

	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/sales", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestIdempotency_DuplicateKeyRejected(t *testing.T) {
	router, _ := idempotencyTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/sales", nil)
	req.Header.Set(IdempotencyHeaderKey, "key-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	replay := httptest.NewRequest(http.MethodPost, "/sales", nil)
	replay.Header.Set(IdempotencyHeaderKey, "key-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, replay)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "DUPLICATE_REQUEST")
}

func TestIdempotency_FailedRequestDoesNotConsumeKey(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(OrgIDKey, uuid.MustParse("00000000-0000-0000-0000-000000000001"))
		c.Next()
	})
	attempts := 0
	router.POST("/sales", Idempotency(store, time.Minute), func(c *gin.Context) {
		attempts++
		if attempts == 1 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "INSUFFICIENT_STOCK"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/sales", nil)
	req.Header.Set(IdempotencyHeaderKey, "key-retry")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	retry := httptest.NewRequest(http.MethodPost, "/sales", nil)
	retry.Header.Set(IdempotencyHeaderKey, "key-retry")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, retry)
	assert.Equal(t, http.StatusCreated, w.Code)

	replay := httptest.NewRequest(http.MethodPost, "/sales", nil)
	replay.Header.Set(IdempotencyHeaderKey, "key-retry")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, replay)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestIdempotency_DistinctKeysAccepted(t *testing.T) {
	router, _ := idempotencyTestRouter(t)

	for _, key := range []string{"key-1", "key-2", "key-3"} {
		req := httptest.NewRequest(http.MethodPost, "/sales", nil)
		req.Header.Set(IdempotencyHeaderKey, key)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}
