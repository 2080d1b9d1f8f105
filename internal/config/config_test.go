package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "SQLite")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, ,kafka-2:9092")
	t.Setenv("RATE_LIMIT_ENABLED", "yes")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SNOWFLAKE_NODE", "not-a-number")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.KafkaBrokers)
	assert.True(t, cfg.Events.Enabled())
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 3, cfg.RateLimit.RedisDB)
	assert.Equal(t, int64(1), cfg.SnowflakeNode)
}

func TestLoadObservabilityDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("OTEL_SAMPLING_RATIO", "0.5")

	obs := Load().Observability

	assert.Equal(t, "debug", obs.LogLevel)
	assert.Equal(t, "json", obs.LogFormat)
	assert.False(t, obs.OtelEnabled)
	assert.Equal(t, "grpc", obs.OtlpProtocol)
	assert.Equal(t, 0.5, obs.OtelSamplingRatio)
}

func TestScanPolicyHolderDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	holder, err := NewScanPolicyHolder(zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, DefaultScanPolicy(), holder.Get())
}

func TestValidateScanPolicy(t *testing.T) {
	assert.NoError(t, validateScanPolicy(DefaultScanPolicy()))
	assert.Error(t, validateScanPolicy(ScanPolicy{BadgeRate: 1, BadgeBurst: 0, EndpointRate: 1, EndpointBurst: 1}))
	assert.Error(t, validateScanPolicy(ScanPolicy{BadgeRate: 1, BadgeBurst: 1, EndpointRate: 0, EndpointBurst: 1}))
}
