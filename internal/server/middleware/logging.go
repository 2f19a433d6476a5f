package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// StatusRecorder receives one observation per served request.
type StatusRecorder interface {
	ObserveRequest(method, path string, status int)
}

// WithLogging logs one line per request and reports it to rec when non-nil.
func WithLogging(rec StatusRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		log.Printf("[%s] %s %s %d %s", RequestID(c), c.Request.Method, c.Request.URL.Path, status, time.Since(start))

		if rec != nil {
			rec.ObserveRequest(c.Request.Method, path, status)
		}
	}
}
