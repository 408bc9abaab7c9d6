package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID on the wire in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key the request ID is stored under.
const RequestIDKey = "request_id"

// maxRequestIDLen caps inbound IDs so a hostile client cannot inflate
// every log line on the request path.
const maxRequestIDLen = 64

// RequestID tags each request with an ID, honoring one supplied by the
// caller so IDs correlate across services. The ID is echoed back in the
// response headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID, or "" when the
// middleware did not run.
func GetRequestID(c *gin.Context) string {
	id, _ := c.Get(RequestIDKey)
	s, _ := id.(string)
	return s
}
