package observability

import (
	"github.com/smallbiznis/badgescan/internal/observability/logger"
	"github.com/smallbiznis/badgescan/internal/observability/metrics"
	"github.com/smallbiznis/badgescan/internal/observability/tracing"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		Config.Logger,
		Config.Tracing,
		Config.Metrics,
	),
	fx.Provide(
		logger.New,
		tracing.NewProvider,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
	// nothing else depends on the tracer provider; force it so the global
	// propagator and exporter are installed
	fx.Invoke(func(trace.TracerProvider) {}),
)
