package redisclient

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Client wraps a Redis client with OpenTelemetry tracing. Every command runs
// inside a "redis.<op>" span.
type Client struct {
	cmdable redis.Cmdable
}

// NewClient creates a new traced Redis client for a single Redis instance
func NewClient(client *redis.Client) *Client {
	return &Client{cmdable: client}
}

// NewClusterClient creates a new traced Redis client for Redis cluster
func NewClusterClient(client *redis.ClusterClient) *Client {
	return &Client{cmdable: client}
}

// Close releases the underlying connection pool
func (c *Client) Close() error {
	if closer, ok := c.cmdable.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// Mode reports whether the client talks to a cluster or a single node
func (c *Client) Mode() string {
	if _, ok := c.cmdable.(*redis.ClusterClient); ok {
		return "cluster"
	}
	return "single"
}

// span starts a traced command and returns a finisher that records the
// outcome. redis.Nil is a miss, not a failure.
func (c *Client) span(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	attrs = append(attrs,
		attribute.String("redis.operation", op),
		attribute.String("redis.client", "app-employee-data"),
	)
	ctx, span := otel.Tracer("redis").Start(ctx, "redis."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		duration := time.Since(start)
		span.SetAttributes(attribute.Int64("redis.duration_ms", duration.Milliseconds()))
		switch {
		case err == nil:
			span.SetStatus(codes.Ok, "success")
		case errors.Is(err, redis.Nil):
			span.SetAttributes(attribute.Bool("redis.miss", true))
			span.SetStatus(codes.Ok, "miss")
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String("redis.error", err.Error()))
		}
		span.End()
	}
}

func (c *Client) Get(ctx context.Context, key string) *redis.StringCmd {
	ctx, done := c.span(ctx, "get", attribute.String("redis.key", key))
	cmd := c.cmdable.Get(ctx, key)
	done(cmd.Err())
	return cmd
}

// SetNX sets key only when it does not exist yet
func (c *Client) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	ctx, done := c.span(ctx, "setnx",
		attribute.String("redis.key", key),
		attribute.String("redis.expiration", expiration.String()),
	)
	cmd := c.cmdable.SetNX(ctx, key, value, expiration)
	done(cmd.Err())
	return cmd
}

func (c *Client) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	ctx, done := c.span(ctx, "del",
		attribute.StringSlice("redis.keys", keys),
		attribute.Int("redis.key_count", len(keys)),
	)
	cmd := c.cmdable.Del(ctx, keys...)
	done(cmd.Err())
	return cmd
}

func (c *Client) Ping(ctx context.Context) *redis.StatusCmd {
	ctx, done := c.span(ctx, "ping")
	cmd := c.cmdable.Ping(ctx)
	done(cmd.Err())
	return cmd
}

// Eval runs a Lua script atomically on the server
func (c *Client) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	ctx, done := c.span(ctx, "eval",
		attribute.StringSlice("redis.keys", keys),
		attribute.Int("redis.arg_count", len(args)),
	)
	cmd := c.cmdable.Eval(ctx, script, keys, args...)
	done(cmd.Err())
	return cmd
}
