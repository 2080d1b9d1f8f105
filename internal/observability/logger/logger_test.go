package logger

import (
	"context"
	"testing"

	obscontext "github.com/smallbiznis/badgescan/internal/observability/context"
	"github.com/smallbiznis/badgescan/pkg/telemetry/correlation"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextAddsRequestFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := obscontext.WithRequestID(context.Background(), "req-1")
	ctx = correlation.WithID(ctx, "corr-1")
	ctx = obscontext.WithBadgeCode(ctx, "badge-1")

	WithContext(ctx, base).Info("scan")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "corr-1", fields["correlation_id"])
		assert.Equal(t, "badge-1", fields["badge_code"])
		assert.NotContains(t, fields, "trace_id")
	}
}

func TestOperationFromSQL(t *testing.T) {
	assert.Equal(t, "INSERT", operationFromSQL(`INSERT INTO "activity_categories" ("activity_name") VALUES ($1)`))
	assert.Equal(t, "SELECT", operationFromSQL("(SELECT 1)"))
	assert.Equal(t, "UNKNOWN", operationFromSQL("  "))
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	_, err := New(nil, Config{Level: "loud"})
	assert.Error(t, err)
}
