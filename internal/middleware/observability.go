package middleware

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hr-portal/app-employee-data/internal/observability"
	"github.com/hr-portal/app-employee-data/internal/utils"
	"go.uber.org/zap"
)

// RequestIDKey is the gin context key holding the request ID
const RequestIDKey = "RequestID"

// RequestLogger logs every completed request and records its duration
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		fields := []zap.Field{
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		}
		if query := c.Request.URL.Query(); len(query) > 0 {
			fields = append(fields, zap.Any("query", maskQuery(query)))
		}
		// only the route template is logged; raw paths carry document numbers
		if status >= 500 {
			observability.Logger().Error("request failed", append(fields, zap.String("path_masked", maskPath(path, c)))...)
		} else {
			observability.Logger().Info("request completed", fields...)
		}

		observability.RequestDuration.WithLabelValues(
			route,
			c.Request.Method,
			strconv.Itoa(status),
		).Observe(latency.Seconds())
	}
}

// maskPath masks the document path parameters of a request path
func maskPath(path string, c *gin.Context) string {
	segments := strings.Split(path, "/")
	for _, p := range c.Params {
		if p.Key != "document" && p.Key != "dependent" {
			continue
		}
		for i, seg := range segments {
			if seg == p.Value {
				segments[i] = observability.MaskDocument(seg)
			}
		}
	}
	return strings.Join(segments, "/")
}

// maskQuery flattens query parameters to their first value and masks personal identifiers
func maskQuery(query url.Values) map[string]interface{} {
	flat := make(map[string]interface{}, len(query))
	for k := range query {
		flat[k] = query.Get(k)
	}
	return observability.MaskSensitiveData(flat)
}

// RequestTracker tracks active connections
func RequestTracker() gin.HandlerFunc {
	return func(c *gin.Context) {
		observability.ActiveConnections.Inc()
		defer observability.ActiveConnections.Dec()
		c.Next()
	}
}

// RequestID propagates X-Request-ID, generating a UUID when absent
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = utils.GenerateUUID()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}
