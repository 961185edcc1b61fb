package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hr-portal/app-employee-data/internal/config"
	"github.com/hr-portal/app-employee-data/internal/handlers"
	"github.com/hr-portal/app-employee-data/internal/logging"
	"github.com/hr-portal/app-employee-data/internal/middleware"
	"github.com/hr-portal/app-employee-data/internal/observability"
	"github.com/hr-portal/app-employee-data/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/hr-portal/app-employee-data/docs"
)

// @title           Employee Data API
// @version         1.0
// @description     API for collecting and validating employee declaration data. Records are filled in six independently updatable steps (personal, vehicle, housing, contact, academic and dependents) and every step is validated before it is stored.

// @host      localhost:8080
// @BasePath  /v1

// @tag.name employees
// @tag.description Employee records and step updates

// @tag.name update-control
// @tag.description Annual update deadlines

// @tag.name catalogs
// @tag.description Permitted enumeration values

// @tag.name health
// @tag.description Health check operations

func main() {
	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}
	cfg := config.AppConfig

	// Initialize observability
	observability.InitTracer()
	defer observability.ShutdownTracer()

	health := handlers.NewHealthHandlers()

	// Initialize storage
	var repo services.EmployeeRepository
	switch cfg.StorageBackend {
	case config.StorageMongo:
		if err := config.InitMongoDB(); err != nil {
			logging.Logger.Fatal("failed to initialize MongoDB", zap.Error(err))
		}
		repo = services.NewMongoEmployeeRepository(config.MongoDB.Collection(cfg.EmployeeCollection), logging.Logger)
		health.AddCheck("mongodb", handlers.MongoCheck(config.MongoDB))
	default:
		repo = services.NewMemoryEmployeeRepository()
	}

	var locker services.IdentityLocker = services.NewLocalIdentityLocker()
	if cfg.UsesRedis() {
		if err := config.InitRedis(); err != nil {
			logging.Logger.Fatal("failed to initialize Redis", zap.Error(err))
		}
		locker = services.NewRedisIdentityLocker(config.Redis, cfg.IdentityLockTTL, logging.Logger)
		health.AddCheck("redis", handlers.RedisCheck(config.Redis))

		if cfg.EmployeeCacheEnabled {
			repo = services.NewCachedEmployeeRepository(repo, config.Redis, cfg.EmployeeCacheTTL, logging.Logger)
		}
	}

	orchestrator := services.NewUpdateOrchestrator(repo, locker, services.OrchestratorOptions{
		MaxRetries:         cfg.OptimisticLockMaxRetries,
		StrictPlausibility: cfg.StrictDependentPlausibility,
	}, logging.Logger)

	logging.Logger.Info("employee storage configured",
		zap.String("backend", cfg.StorageBackend),
		zap.Bool("cache_enabled", cfg.EmployeeCacheEnabled),
		zap.Bool("distributed_lock", cfg.UsesRedis()),
	)

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router with middleware
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestTiming(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		cors.Default(),
	)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/health", health.HealthCheck)
		v1.GET("/catalogs", handlers.GetCatalogs)
		handlers.NewEmployeeHandlers(orchestrator, repo, logging.Logger).RegisterRoutes(v1)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create server with timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", cfg.Port),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	if config.MongoDB != nil {
		if err := config.MongoDB.Client().Disconnect(ctx); err != nil {
			logging.Logger.Warn("failed to disconnect MongoDB", zap.Error(err))
		}
	}

	if config.Redis != nil {
		if err := config.Redis.Close(); err != nil {
			logging.Logger.Warn("failed to close Redis", zap.Error(err))
		}
	}

	logging.Logger.Info("server exited gracefully")
}
