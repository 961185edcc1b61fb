package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// StorageBackend selects the employee repository implementation
	StorageBackend string `json:"storage_backend"`

	// MongoDB configuration
	MongoURI           string `json:"mongo_uri"`
	MongoDatabase      string `json:"mongo_database"`
	EmployeeCollection string `json:"mongo_employee_collection"`

	// Redis configuration
	RedisURI      string `json:"redis_uri"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`
	// RedisClusterAddrs switches to cluster mode when non-empty
	RedisClusterAddrs []string `json:"redis_cluster_addrs"`

	// Employee record cache and per-identity locking
	EmployeeCacheEnabled bool          `json:"employee_cache_enabled"`
	EmployeeCacheTTL     time.Duration `json:"employee_cache_ttl"`
	IdentityLockTTL      time.Duration `json:"identity_lock_ttl"`

	// Update orchestration
	OptimisticLockMaxRetries    int  `json:"optimistic_lock_max_retries"`
	StrictDependentPlausibility bool `json:"strict_dependent_plausibility"`

	// Tracing configuration
	TracingEnabled     bool    `json:"tracing_enabled"`
	TracingEndpoint    string  `json:"tracing_endpoint"`
	TracingSampleRatio float64 `json:"tracing_sample_ratio"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnvOrDefault("EMPLOYEE_CACHE_TTL", "10m"))
	if err != nil {
		return fmt.Errorf("invalid EMPLOYEE_CACHE_TTL: %w", err)
	}

	backend := strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StorageMemory))
	if backend != StorageMemory && backend != StorageMongo {
		return fmt.Errorf("invalid STORAGE_BACKEND %q: must be %s or %s", backend, StorageMemory, StorageMongo)
	}

	AppConfig = &Config{
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		StorageBackend: backend,

		MongoURI:           getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnvOrDefault("MONGODB_DATABASE", "hr"),
		EmployeeCollection: getEnvOrDefault("MONGODB_EMPLOYEE_COLLECTION", "employees"),

		RedisURI:      getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		RedisClusterAddrs: getEnvAsListOrDefault("REDIS_CLUSTER_ADDRS", nil),

		EmployeeCacheEnabled: getEnvAsBoolOrDefault("EMPLOYEE_CACHE_ENABLED", false),
		EmployeeCacheTTL:     cacheTTL,
		IdentityLockTTL:      getEnvAsDurationOrDefault("IDENTITY_LOCK_TTL", 10*time.Second),

		OptimisticLockMaxRetries:    getEnvAsIntOrDefault("OPTIMISTIC_LOCK_MAX_RETRIES", 3),
		StrictDependentPlausibility: getEnvAsBoolOrDefault("STRICT_DEPENDENT_PLAUSIBILITY", false),

		TracingEnabled:     getEnvAsBoolOrDefault("TRACING_ENABLED", false),
		TracingEndpoint:    getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
		TracingSampleRatio: getEnvAsFloatOrDefault("TRACING_SAMPLE_RATIO", 1),
	}

	return nil
}

// UsesRedis reports whether any component needs the Redis connection
func (c *Config) UsesRedis() bool {
	return c.EmployeeCacheEnabled || c.StorageBackend == StorageMongo
}

// getEnvAsListOrDefault splits a comma separated variable, dropping empty items
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
