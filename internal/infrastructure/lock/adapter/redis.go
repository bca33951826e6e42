package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/lock/port"
)

// RedisLocker implements port.Locker with SET NX + TTL. It serializes
// first-contact conversation creation per attendee across processes; the
// database unique constraint remains the correctness backstop if Redis is
// unavailable.
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLockerFromEnv constructs a locker using the REDIS_URL env var.
func NewRedisLockerFromEnv() (*RedisLocker, error) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return nil, errors.New("redis: REDIS_URL environment variable is not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	c := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &RedisLocker{client: c}, nil
}

var _ port.Locker = (*RedisLocker)(nil)

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, 1, ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}

func (l *RedisLocker) Close() error {
	return l.client.Close()
}
