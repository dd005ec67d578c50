package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())
		metrics.RecordHTTPRequest(method, path, status, duration)
	}
}

// Timer measures one render for the engine metrics.
type Timer struct {
	start   time.Time
	metrics *Metrics
	module  string
}

// NewTimer starts a render timer.
func NewTimer(metrics *Metrics, module string) *Timer {
	return &Timer{start: time.Now(), metrics: metrics, module: module}
}

// Stop records the render with its outcome.
func (t *Timer) Stop(status string) {
	t.metrics.RecordRender(t.module, status, time.Since(t.start))
}
