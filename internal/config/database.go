package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hr-portal/app-employee-data/internal/logging"
	"github.com/hr-portal/app-employee-data/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"
)

var (
	// MongoDB client
	MongoDB *mongo.Database
	// Redis client
	Redis *redisclient.Client
)

// InitMongoDB connects to MongoDB and ensures the employee indexes
func InitMongoDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(AppConfig.MongoURI).
		SetMonitor(otelmongo.NewMonitor()).
		SetMaxPoolSize(100).
		SetMinPoolSize(10).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping MongoDB: %w", err)
	}

	MongoDB = client.Database(AppConfig.MongoDatabase)

	if err := EnsureEmployeeIndexes(ctx, MongoDB.Collection(AppConfig.EmployeeCollection)); err != nil {
		logging.Logger.Error("failed to ensure indexes on startup", zap.Error(err))
	}

	logging.Logger.Info("connected to MongoDB",
		zap.String("uri", maskMongoURI(AppConfig.MongoURI)),
		zap.String("database", AppConfig.MongoDatabase),
	)
	return nil
}

// InitRedis connects the traced Redis client
func InitRedis() error {
	Redis = newRedisClient(AppConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping Redis at %s: %w", redisTarget(AppConfig), err)
	}

	logging.Logger.Info("connected to Redis",
		zap.String("uri", redisTarget(AppConfig)),
		zap.String("mode", Redis.Mode()),
	)
	return nil
}

// newRedisClient builds a cluster client when cluster addresses are configured
// and a single-node client otherwise
func newRedisClient(cfg *Config) *redisclient.Client {
	if len(cfg.RedisClusterAddrs) > 0 {
		return redisclient.NewClusterClient(redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        cfg.RedisClusterAddrs,
			Password:     cfg.RedisPassword,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 5,
		}))
	}
	return redisclient.NewClient(redis.NewClient(&redis.Options{
		Addr:         cfg.RedisURI,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	}))
}

func redisTarget(cfg *Config) string {
	if len(cfg.RedisClusterAddrs) > 0 {
		return strings.Join(cfg.RedisClusterAddrs, ",")
	}
	return cfg.RedisURI
}

// maskMongoURI hides the credentials part of a MongoDB URI
func maskMongoURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at < 0 {
		return uri
	}
	scheme := "mongodb://"
	if strings.HasPrefix(uri, "mongodb+srv://") {
		scheme = "mongodb+srv://"
	}
	return scheme + "****:****@" + uri[at+1:]
}

// employeeIndexes backs the repository lookups and queries
var employeeIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "document_number", Value: 1}},
		Options: options.Index().SetName("document_number_1").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "personal_info.department", Value: 1}},
		Options: options.Index().SetName("personal_info_department_1"),
	},
	{
		Keys:    bson.D{{Key: "personal_info.job_title", Value: 1}},
		Options: options.Index().SetName("personal_info_job_title_1"),
	},
	{
		Keys:    bson.D{{Key: "complete", Value: 1}},
		Options: options.Index().SetName("complete_1"),
	},
	{
		Keys:    bson.D{{Key: "has_vehicle", Value: 1}},
		Options: options.Index().SetName("has_vehicle_1"),
	},
	{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetName("updated_at_1"),
	},
}

// EnsureEmployeeIndexes creates the missing employee indexes. An index created
// concurrently by another instance is not an error.
func EnsureEmployeeIndexes(ctx context.Context, collection *mongo.Collection) error {
	logger := logging.Logger.Named("database").With(zap.String("collection", collection.Name()))

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}
	defer cursor.Close(ctx)

	existing := make(map[string]bool)
	for cursor.Next(ctx) {
		var index bson.M
		if err := cursor.Decode(&index); err != nil {
			continue
		}
		if name, ok := index["name"].(string); ok {
			existing[name] = true
		}
	}

	created := 0
	for _, model := range missingIndexes(existing) {
		if _, err := collection.Indexes().CreateOne(ctx, model); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				logger.Info("index already exists (created by another instance)")
				continue
			}
			return fmt.Errorf("create index: %w", err)
		}
		created++
	}

	if created > 0 {
		logger.Info("created employee collection indexes", zap.Int("count", created))
	} else {
		logger.Debug("employee collection indexes already exist")
	}
	return nil
}

func missingIndexes(existing map[string]bool) []mongo.IndexModel {
	var missing []mongo.IndexModel
	for _, model := range employeeIndexes {
		if !existing[*model.Options.Name] {
			missing = append(missing, model)
		}
	}
	return missing
}
