package server

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/badgescan/internal/observability/context"
	"github.com/smallbiznis/badgescan/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/badgescan/internal/observability/metrics"
	"github.com/smallbiznis/badgescan/internal/ratelimit"
	"go.uber.org/zap"
)

const (
	rateLimitReasonEndpointRate = "endpoint-rate"
	rateLimitReasonBadgeRate    = "badge-rate"
)

// ScanIngestRateLimit guards scan ingestion with the endpoint bucket first
// and the per-badge bucket second. Redis failures fail closed with 503.
func (s *Server) ScanIngestRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.scanLimiter.Enabled() {
			c.Next()
			return
		}

		badgeCode := strings.TrimSpace(c.Param("code"))
		ctx := obscontext.WithBadgeCode(c.Request.Context(), badgeCode)
		c.Request = c.Request.WithContext(ctx)
		endpoint := normalizeRateLimitEndpoint(c)

		res, err := s.scanLimiter.AllowEndpoint(ctx, endpoint)
		if err != nil {
			logger.FromContext(ctx).Warn("scan ingest endpoint rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !res.Allowed {
			denyScanIngest(c, endpoint, rateLimitReasonEndpointRate, res, s.obsMetrics)
			return
		}

		res, err = s.scanLimiter.AllowBadge(ctx, badgeCode)
		if err != nil {
			logger.FromContext(ctx).Warn("scan ingest badge rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !res.Allowed {
			denyScanIngest(c, endpoint, rateLimitReasonBadgeRate, res, s.obsMetrics)
			return
		}

		c.Next()
	}
}

func denyScanIngest(c *gin.Context, endpoint, reason string, res *ratelimit.RateLimitResult, metrics *obsmetrics.Metrics) {
	ctx := c.Request.Context()
	logger.FromContext(ctx).Warn("scan ingest rate limit exceeded",
		zap.String("reason", reason),
		zap.String("endpoint", endpoint),
	)
	recordRateLimitDenied(ctx, endpoint, reason, metrics)

	c.Header("Retry-After", retryAfterSeconds(res))
	c.Header("X-Rate-Limited-Reason", reason)
	if res != nil {
		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.ResetTime.IsZero() {
			c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetTime.Unix(), 10))
		}
	}
	AbortWithError(c, ErrRateLimited)
}

func recordRateLimitDenied(ctx context.Context, endpoint, reason string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitDenied(ctx, endpoint, reason)
}

func retryAfterSeconds(res *ratelimit.RateLimitResult) string {
	if res == nil || res.RetryAfter <= 0 {
		return "1"
	}
	seconds := int64((res.RetryAfter + time.Second - 1) / time.Second)
	return strconv.FormatInt(seconds, 10)
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	if c == nil {
		return "unknown"
	}
	endpoint := strings.TrimSpace(c.FullPath())
	if endpoint == "" {
		endpoint = strings.TrimSpace(c.Request.URL.Path)
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	return endpoint
}
