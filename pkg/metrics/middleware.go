package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Эндпоинты, которые не попадают в http_* метрики
var skippedPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// GinPrometheusMiddleware считает http_requests_total, http_request_duration_seconds
// и http_requests_in_flight с меткой сервиса. Путь пишется шаблоном маршрута.
func GinPrometheusMiddleware(serviceName string) gin.HandlerFunc {
	inFlight := HttpRequestsInFlight.WithLabelValues(serviceName)

	return func(c *gin.Context) {
		if _, skip := skippedPaths[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		start := time.Now()
		inFlight.Inc()
		defer inFlight.Dec()

		c.Next()

		route := normalizePath(c.FullPath(), c.Request.URL.Path)
		HttpRequestsTotal.WithLabelValues(serviceName, c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HttpRequestDuration.WithLabelValues(serviceName, c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// normalizePath держит кардинальность низкой: шаблон маршрута (/api/v1/product/:id)
// вместо реального пути, а все ненайденные маршруты под одной меткой
func normalizePath(routePattern, rawPath string) string {
	if routePattern != "" {
		return routePattern
	}
	if rawPath == "" {
		return "/"
	}
	return "unmatched"
}
