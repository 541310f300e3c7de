package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	prom "github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/prometheus"
)

// unmatchedRoute labels requests that matched no route so raw paths never
// become label values.
const unmatchedRoute = "unmatched"

// Metrics records request count, latency and in-flight requests.  Paths are
// labelled with the route template, e.g. /v1/universes/:id.
func Metrics(m *prom.EngineMetrics) gin.HandlerFunc {
	if m == nil {
		m = prom.NewNoopMetrics()
	}
	return func(c *gin.Context) {
		method := c.Request.Method
		active := m.HTTPActiveRequests.WithLabelValues(method)
		active.Inc()
		start := time.Now()

		c.Next()

		active.Dec()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		prom.RecordHTTPRequest(m, method, route, c.Writer.Status(), time.Since(start))
	}
}

//Personal.AI order the ending
