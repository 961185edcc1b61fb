package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hr-portal/app-employee-data/internal/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrDocumentNotFound is returned when the filtered document does not exist at all
var ErrDocumentNotFound = errors.New("document not found")

// OptimisticLockError represents an optimistic locking conflict
type OptimisticLockError struct {
	Resource string
	Message  string
}

func (e OptimisticLockError) Error() string {
	return fmt.Sprintf("optimistic lock conflict for %s: %s", e.Resource, e.Message)
}

// IsOptimisticLockError reports whether err is, or wraps, a lock conflict
func IsOptimisticLockError(err error) bool {
	var lockErr OptimisticLockError
	return errors.As(err, &lockErr)
}

// OptimisticUpdateResult represents the result of an optimistic update
type OptimisticUpdateResult struct {
	ModifiedCount int64
	Version       int64
	UpdatedAt     time.Time
}

// UpdateWithOptimisticLock applies update only when the stored version equals
// expectedVersion, bumping version and updated_at in the same write.
func UpdateWithOptimisticLock(ctx context.Context, collection *mongo.Collection, filter bson.M, update bson.M, expectedVersion int64) (*OptimisticUpdateResult, error) {
	logger := logging.Logger.With(
		zap.String("collection", collection.Name()),
		zap.Int64("expected_version", expectedVersion),
	)

	versioned := bson.M{"version": expectedVersion}
	for k, v := range filter {
		versioned[k] = v
	}

	newVersion := expectedVersion + 1
	now := time.Now().UTC()

	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
	}
	set["version"] = newVersion
	set["updated_at"] = now
	update["$set"] = set

	result, err := collection.UpdateOne(ctx, versioned, update)
	if err != nil {
		logger.Error("failed to perform optimistic update", zap.Error(err))
		return nil, fmt.Errorf("failed to perform optimistic update: %w", err)
	}

	if result.MatchedCount == 0 {
		var existing bson.M
		err := collection.FindOne(ctx, filter).Decode(&existing)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDocumentNotFound
		}
		if err != nil {
			logger.Error("failed to check existing document", zap.Error(err))
			return nil, fmt.Errorf("failed to check existing document: %w", err)
		}

		actual := versionOf(existing)
		logger.Warn("optimistic lock conflict detected", zap.Int64("actual_version", actual))
		return nil, OptimisticLockError{
			Resource: collection.Name(),
			Message:  fmt.Sprintf("expected version %d, but document has version %d", expectedVersion, actual),
		}
	}

	logger.Debug("optimistic update successful", zap.Int64("new_version", newVersion))

	return &OptimisticUpdateResult{
		ModifiedCount: result.ModifiedCount,
		Version:       newVersion,
		UpdatedAt:     now,
	}, nil
}

func versionOf(doc bson.M) int64 {
	switch v := doc["version"].(type) {
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// RetryWithOptimisticLock retries operation on lock conflicts with exponential
// backoff of 2^attempt * 100ms. Other errors are returned immediately.
func RetryWithOptimisticLock(ctx context.Context, maxRetries int, operation func() error) error {
	return retryWithBackoff(ctx, maxRetries, 100*time.Millisecond, operation)
}

func retryWithBackoff(ctx context.Context, maxRetries int, base time.Duration, operation func() error) error {
	logger := logging.Logger.With(zap.String("operation", "retry_with_optimistic_lock"))

	for attempt := 0; ; attempt++ {
		err := operation()
		if err == nil || !IsOptimisticLockError(err) {
			return err
		}
		if attempt >= maxRetries {
			logger.Warn("max retries reached for optimistic lock",
				zap.Int("attempts", attempt+1),
				zap.Error(err))
			return err
		}

		backoff := time.Duration(1<<attempt) * base
		logger.Debug("optimistic lock conflict, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}
