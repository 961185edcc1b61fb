package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hr-portal/app-employee-data/internal/redisclient"
	"github.com/hr-portal/app-employee-data/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheckFunc checks one dependency
type HealthCheckFunc func(ctx context.Context) error

// HealthHandlers reports the state of the storage dependencies
type HealthHandlers struct {
	checks map[string]HealthCheckFunc
}

func NewHealthHandlers() *HealthHandlers {
	return &HealthHandlers{checks: make(map[string]HealthCheckFunc)}
}

// AddCheck registers a named dependency check
func (h *HealthHandlers) AddCheck(name string, check HealthCheckFunc) {
	h.checks[name] = check
}

// MongoCheck pings the primary of db's client
func MongoCheck(db *mongo.Database) HealthCheckFunc {
	return func(ctx context.Context) error {
		ctx, span := utils.TraceExternalService(ctx, "mongodb", "ping")
		defer span.End()
		return db.Client().Ping(ctx, readpref.Primary())
	}
}

func RedisCheck(client *redisclient.Client) HealthCheckFunc {
	return func(ctx context.Context) error {
		ctx, span := utils.TraceExternalService(ctx, "redis", "ping")
		defer span.End()
		return client.Ping(ctx).Err()
	}
}

// HealthCheck godoc
// @Summary Health check
// @Description Reports whether the service and its storage dependencies are reachable.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "All dependencies healthy"
// @Failure 503 {object} HealthResponse "A dependency is unreachable"
// @Router /health [get]
func (h *HealthHandlers) HealthCheck(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "HealthCheck")
	defer span.End()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string, len(h.checks)),
	}
	status := http.StatusOK

	for name, check := range h.checks {
		checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		err := check(checkCtx)
		cancel()
		if err != nil {
			utils.RecordErrorInSpan(span, err, map[string]interface{}{"service": name})
			resp.Services[name] = "unhealthy"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Services[name] = "healthy"
	}

	c.JSON(status, resp)
}
