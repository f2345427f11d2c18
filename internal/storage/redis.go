package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// DefaultRedisHash is the hash that holds all keys written by Redis.
const DefaultRedisHash = "cartctl:storage"

// Redis stores keys as fields of a single Redis hash.
type Redis struct {
	client      *redis.Client
	ctx         context.Context
	hash        string
	maxAttempts int
	log         logrus.FieldLogger
}

// NewRedis accepts a Redis URL ("redis://host:port/db") or a plain
// "host:port" address and returns a store. No connection is made until
// Initialize or the first command.
func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opts, err := redis.ParseURL(addr)
	if err != nil {
		// Not a redis:// URL; use it as a plain address.
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     2,
		}
	}

	return &Redis{
		client:      redis.NewClient(opts),
		ctx:         ctx,
		hash:        DefaultRedisHash,
		maxAttempts: 5,
		log:         logrus.StandardLogger(),
	}, nil
}

// Initialize pings Redis with exponential backoff until it answers,
// the attempts run out, or ctx is done.
func (r *Redis) Initialize(ctx context.Context) error {
	for i := 0; i < r.maxAttempts; i++ {
		if r.Ping(ctx) {
			r.log.WithField("attempt", i+1).Debug("redis storage ready")
			return nil
		}
		if i == r.maxAttempts-1 {
			break
		}

		backoff := time.Duration(250*(1<<uint(i))) * time.Millisecond
		if backoff > 5*time.Second {
			backoff = 5 * time.Second
		}
		r.log.WithField("backoff", backoff).Debug("redis not reachable, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("connecting to redis at %s after %d attempts", r.client.Options().Addr, r.maxAttempts)
}

// Ping reports whether Redis answers within a short timeout.
func (r *Redis) Ping(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.client.Ping(pingCtx).Err(); err != nil {
		r.log.WithError(err).Debug("redis ping failed")
		return false
	}
	return true
}

// Get returns the value stored under key.
func (r *Redis) Get(key string) (string, bool, error) {
	val, err := r.client.HGet(r.ctx, r.hash, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis HGET %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores value under key.
func (r *Redis) Set(key, value string) error {
	if err := r.client.HSet(r.ctx, r.hash, key, value).Err(); err != nil {
		return fmt.Errorf("redis HSET %s: %w", key, err)
	}
	return nil
}

// Close releases the client's connections.
func (r *Redis) Close() error {
	return r.client.Close()
}
