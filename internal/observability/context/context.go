// Package context carries request-scoped identifiers used by logs and spans.
package context

import (
	"context"
	"strings"
)

type requestIDKey struct{}
type badgeCodeKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithBadgeCode records the badge the current request acts on.
func WithBadgeCode(ctx context.Context, badgeCode string) context.Context {
	badgeCode = strings.TrimSpace(badgeCode)
	if badgeCode == "" {
		return ctx
	}
	return context.WithValue(ctx, badgeCodeKey{}, badgeCode)
}

func BadgeCodeFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(badgeCodeKey{}).(string); ok {
		return v
	}
	return ""
}
