package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tableside/pos-api/internal/logger"
)

// RequestLogger tags each request with an id and logs one line after the
// handler chain completes.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Header("X-Request-Id", requestID)
		c.Next()
		log.Info("http_request", c.Request.Method+" "+c.Request.URL.Path,
			"request_id", requestID,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
