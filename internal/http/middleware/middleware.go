package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/localhostd3veloper/faultline.ai/common/id"
	"github.com/localhostd3veloper/faultline.ai/common/logger"
)

// RequestID tags every request with a snowflake id, echoed in the
// X-Request-Id header and attached to the request's log context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := id.New()
		c.Header("X-Request-Id", strconv.FormatInt(reqID, 10))

		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
			RequestID: logger.Ptr(reqID),
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// Recovery converts panics into 500 responses instead of crashing the
// process.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(c.Request.Context(), "panic recovered in handler",
					"panic", r,
					"path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}

// Logger emits one structured line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.InfoContext(c.Request.Context(), "request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}
