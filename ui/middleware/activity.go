package middleware

import (
	"time"

	"conversor/internal/logger"

	"github.com/gin-gonic/gin"
)

// Toucher is anything that records request activity.
type Toucher interface {
	Touch()
}

// TrackActivity marks every request as activity so the idle monitor does not
// shut the application down while it is in use.
func TrackActivity(tracker Toucher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tracker != nil {
			tracker.Touch()
		}
		c.Next()
	}
}

// RequestLogger logs one line per request through the application logger.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		line := "[HTTP] %s %s -> %d (%.2fms)"
		elapsed := float64(time.Since(start).Nanoseconds()) / 1e6
		switch {
		case status >= 500:
			logger.Errorf(line, c.Request.Method, c.Request.URL.Path, status, elapsed)
		case status >= 400:
			logger.Warnf(line, c.Request.Method, c.Request.URL.Path, status, elapsed)
		default:
			logger.Debugf(line, c.Request.Method, c.Request.URL.Path, status, elapsed)
		}
	}
}
