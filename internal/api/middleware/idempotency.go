package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"

	idempotencyKeyKey = "idempotency_key"
	requestHashKey    = "request_hash"

	maxIdempotencyKeyLength = 255
)

// IdempotencyMiddleware records the Idempotency-Key header and a SHA-256
// hash of the request body. The body is restored for the handler.
func IdempotencyMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": "idempotency key too long"})
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logger.Error("Failed to read request body", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		sum := sha256.Sum256(body)
		c.Set(idempotencyKeyKey, key)
		c.Set(requestHashKey, hex.EncodeToString(sum[:]))

		c.Next()
	}
}

// GetIdempotencyInfo returns the idempotency key and request hash, both
// empty when the client sent no key
func GetIdempotencyInfo(c *gin.Context) (key, requestHash string) {
	return c.GetString(idempotencyKeyKey), c.GetString(requestHashKey)
}
