// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"starprep/internal/observability"

	"github.com/redis/go-redis/v9"
)

// client is nil when Redis is unreachable or unconfigured; every helper in
// this package treats a nil client as a cache that always misses.
var client *redis.Client

// errCounterHook feeds command failures into the Prometheus error counter.
// A redis.Nil reply is a miss, not a failure.
type errCounterHook struct{}

func (errCounterHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (errCounterHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (errCounterHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// parseAddr accepts either a bare host:port or a redis:// URL.
func parseAddr(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// InitRedis connects the package-level client. Failures leave the client
// nil and the app running uncached.
func InitRedis(addr string) {
	opts, err := parseAddr(addr)
	if err != nil {
		observability.GlobalLogger.Warn("invalid redis address, continuing without cache",
			"addr", addr, "error", err)
		client = nil
		return
	}

	c := redis.NewClient(opts)
	c.AddHook(errCounterHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		observability.GlobalLogger.Warn("redis unreachable, continuing without cache",
			"error", err)
		_ = c.Close()
		client = nil
		return
	}

	observability.GlobalLogger.Info("redis connected")
	client = c
}

// SetClient swaps the client; used by tests with a miniredis backend.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the current Redis client instance.
func GetClient() *redis.Client {
	return client
}
