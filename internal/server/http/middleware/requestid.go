package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the correlation id in both directions.
	RequestIDHeader     = "X-Request-ID"
	requestIDContextKey = "requestID"
	maxRequestIDLength  = 128
)

// AssignRequestID reuses a caller supplied correlation id or mints a new one.
func AssignRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(requestIDContextKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestID returns the correlation id assigned to the request, if any.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDContextKey)
}
