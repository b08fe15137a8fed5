package middleware

import (
	"context"
	"slices"

	"github.com/erp/reconciliation/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling labels profile samples taken while a request is handled with
// its route template and method. Probes are skipped.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	skip := []string{"/health", "/ready"}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || slices.Contains(skip, route) {
			c.Next()
			return
		}
		labels := telemetry.HTTPRequestLabels(route, c.Request.Method)
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
