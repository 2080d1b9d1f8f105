package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/badgescan/internal/config"
)

const (
	keyScanIngestBadge    = "scan:ingest:badge:%s"
	keyScanIngestEndpoint = "scan:ingest:endpoint:%s"
)

type Bucket interface {
	Allow(ctx context.Context, key string, rate float64, burst int) (*RateLimitResult, error)
}

// ScanIngestLimiter throttles scan ingestion per badge and for the ingest
// endpoint as a whole. Limits are read from the policy on every call, so a
// reloaded scanpolicy.yml applies to the next request.
type ScanIngestLimiter struct {
	bucket Bucket
	policy *config.ScanPolicyHolder
}

func NewScanIngestLimiter(bucket Bucket, policy *config.ScanPolicyHolder) *ScanIngestLimiter {
	return &ScanIngestLimiter{bucket: bucket, policy: policy}
}

func (l *ScanIngestLimiter) Enabled() bool {
	return l != nil && l.bucket != nil && l.policy != nil
}

func (l *ScanIngestLimiter) AllowBadge(ctx context.Context, badgeCode string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	policy := l.policy.Get()
	key := fmt.Sprintf(keyScanIngestBadge, strings.TrimSpace(badgeCode))
	return l.bucket.Allow(ctx, key, policy.BadgeRate, policy.BadgeBurst)
}

func (l *ScanIngestLimiter) AllowEndpoint(ctx context.Context, endpoint string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	policy := l.policy.Get()
	key := fmt.Sprintf(keyScanIngestEndpoint, strings.TrimSpace(endpoint))
	return l.bucket.Allow(ctx, key, policy.EndpointRate, policy.EndpointBurst)
}
