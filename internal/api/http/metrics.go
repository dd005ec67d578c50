package http

import (
	"github.com/gin-gonic/gin"
	"github.com/kuken-host/engine/internal/monitoring"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler serves the Prometheus scrape endpoint, refreshing the
// uptime gauge on each scrape.
func MetricsHandler(metrics *monitoring.Metrics) gin.HandlerFunc {
	handler := promhttp.HandlerFor(metrics.Gatherer(), promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		metrics.UpdateUptime()
		handler.ServeHTTP(c.Writer, c.Request)
	}
}
