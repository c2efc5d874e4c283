package api

import (
	"net/http"
	"time"

	"energia_assistant/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id between services
const RequestIDHeader = "X-Request-ID"

// Logger logs one line per request and tags it with a request id
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
			c.Request.Header.Set(RequestIDHeader, requestID)
		}
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()

		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).Round(time.Microsecond),
			"client_ip":  c.ClientIP(),
		}, c.Request.Method+" "+c.Request.URL.Path)
	}
}

// CORS allows every origin, method and header
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "*")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
