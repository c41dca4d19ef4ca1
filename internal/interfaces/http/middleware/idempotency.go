package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	IdempotencyKeyCtx    = "idempotency_key"

	MaxIdempotencyKeyLength = 255
)

// IdempotencyKey reads the Idempotency-Key header into the gin context.
// Oversized keys are rejected.
func IdempotencyKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if len(key) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				errorBody(c, "ERR_VALIDATION_FORMAT", "Idempotency-Key is too long"))
			return
		}
		if key != "" {
			c.Set(IdempotencyKeyCtx, key)
		}
		c.Next()
	}
}

// GetIdempotencyKey returns the key read by IdempotencyKey, or "".
func GetIdempotencyKey(c *gin.Context) string {
	return c.GetString(IdempotencyKeyCtx)
}
