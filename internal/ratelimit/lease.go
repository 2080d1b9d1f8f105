package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

var (
	ErrLeaseHeld = errors.New("lease is held by another owner")
	ErrLeaseLost = errors.New("lease expired or was taken over")
)

// Compare-and-delete / compare-and-extend on the owner token.
const (
	leaseReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`
	leaseRefreshScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`
)

// Lease is an exclusive, expiring claim on a key.
type Lease interface {
	Refresh(ctx context.Context) error
	Release(ctx context.Context) error
}

// Locker hands out redis-backed leases. A nil *Locker means redis is not
// configured.
type Locker struct {
	client  *redis.Client
	release *redis.Script
	refresh *redis.Script
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{
		client:  client,
		release: redis.NewScript(leaseReleaseScript),
		refresh: redis.NewScript(leaseRefreshScript),
	}
}

// Acquire claims key for ttl. It returns ErrLeaseHeld when another owner
// holds the key.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	if l == nil || l.client == nil {
		return nil, errors.New("lock client not configured")
	}
	if key == "" {
		return nil, errors.New("lock key is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("lock ttl must be positive")
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLeaseHeld
	}
	return &redisLease{locker: l, key: key, token: token, ttl: ttl}, nil
}

type redisLease struct {
	locker *Locker
	key    string
	token  string
	ttl    time.Duration
}

func (l *redisLease) Refresh(ctx context.Context) error {
	n, err := l.locker.refresh.Run(ctx, l.locker.client, []string{l.key}, l.token, l.ttl.Milliseconds()).Int64()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLeaseLost
	}
	return nil
}

func (l *redisLease) Release(ctx context.Context) error {
	return l.locker.release.Run(ctx, l.locker.client, []string{l.key}, l.token).Err()
}
