package port

import (
	"context"
	"time"
)

// Locker is a best-effort cross-process mutex. Acquire returns false when
// another holder owns the key. Locks expire after ttl so a crashed holder
// cannot wedge the key.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
	Close() error
}
