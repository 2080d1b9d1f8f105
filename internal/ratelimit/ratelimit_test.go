package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/badgescan/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bucketCall struct {
	key   string
	rate  float64
	burst int
}

type fakeBucket struct {
	calls   []bucketCall
	allowed bool
	err     error
}

func (b *fakeBucket) Allow(_ context.Context, key string, rate float64, burst int) (*RateLimitResult, error) {
	b.calls = append(b.calls, bucketCall{key: key, rate: rate, burst: burst})
	if b.err != nil {
		return &RateLimitResult{}, b.err
	}
	return &RateLimitResult{Allowed: b.allowed, Limit: burst}, nil
}

func TestScanIngestLimiterUsesPolicy(t *testing.T) {
	bucket := &fakeBucket{allowed: true}
	policy := config.NewStaticScanPolicyHolder(config.ScanPolicy{
		BadgeRate:     1,
		BadgeBurst:    3,
		EndpointRate:  50,
		EndpointBurst: 100,
	})
	limiter := NewScanIngestLimiter(bucket, policy)

	res, err := limiter.AllowBadge(context.Background(), " B-001 ")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	_, err = limiter.AllowEndpoint(context.Background(), "/scan/:code")
	require.NoError(t, err)

	require.Len(t, bucket.calls, 2)
	assert.Equal(t, bucketCall{key: "scan:ingest:badge:B-001", rate: 1, burst: 3}, bucket.calls[0])
	assert.Equal(t, bucketCall{key: "scan:ingest:endpoint:/scan/:code", rate: 50, burst: 100}, bucket.calls[1])
}

func TestScanIngestLimiterPropagatesDenialAndErrors(t *testing.T) {
	policy := config.NewStaticScanPolicyHolder(config.DefaultScanPolicy())

	denied, err := NewScanIngestLimiter(&fakeBucket{allowed: false}, policy).AllowBadge(context.Background(), "B-001")
	require.NoError(t, err)
	assert.False(t, denied.Allowed)

	_, err = NewScanIngestLimiter(&fakeBucket{err: errors.New("redis down")}, policy).AllowEndpoint(context.Background(), "x")
	assert.Error(t, err)
}

func TestNilLimiterAllows(t *testing.T) {
	var limiter *ScanIngestLimiter

	assert.False(t, limiter.Enabled())
	res, err := limiter.AllowBadge(context.Background(), "B-001")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestTokenBucketValidation(t *testing.T) {
	assert.Nil(t, NewTokenBucket(nil))

	var bucket *TokenBucket
	_, err := bucket.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)
}

func TestParseBucketReply(t *testing.T) {
	now := time.Now().UnixMilli()

	res, err := parseBucketReply([]interface{}{int64(1), int64(4000), now}, 2, 5)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 4, res.Remaining)
	assert.Equal(t, 5, res.Limit)
	assert.Zero(t, res.RetryAfter)

	res, err = parseBucketReply([]interface{}{int64(0), "0", now}, 2, 5)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 500*time.Millisecond, res.RetryAfter)

	// a partially refilled bucket only waits for the missing fraction
	res, err = parseBucketReply([]interface{}{int64(0), int64(750), now}, 1, 5)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 250*time.Millisecond, res.RetryAfter)

	_, err = parseBucketReply([]interface{}{int64(1)}, 2, 5)
	assert.Error(t, err)
}

func TestDefaultBucketTTL(t *testing.T) {
	assert.Equal(t, 5*time.Second, defaultBucketTTL(2, 5))
	assert.Equal(t, time.Second, defaultBucketTTL(1000, 1))
	assert.Equal(t, time.Second, defaultBucketTTL(0, 0))
}

func TestLockerRequiresClient(t *testing.T) {
	assert.Nil(t, NewLocker(nil))

	var locker *Locker
	lease, err := locker.Acquire(context.Background(), "seed", time.Second)
	assert.Nil(t, lease)
	assert.Error(t, err)
}
