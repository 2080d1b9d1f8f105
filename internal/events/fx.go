package events

import (
	"context"

	"github.com/smallbiznis/badgescan/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("events",
	fx.Provide(NewPublisher),
)

// NewPublisher returns a Kafka publisher when brokers are configured and a
// no-op publisher otherwise.
func NewPublisher(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) Publisher {
	if !cfg.Events.Enabled() {
		log.Info("event publishing disabled, no kafka brokers configured")
		return NopPublisher{}
	}

	publisher := NewKafkaPublisher(cfg.Events.KafkaBrokers, cfg.Events.TopicPrefix, log)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})
	log.Info("event publishing enabled", zap.Strings("brokers", cfg.Events.KafkaBrokers))
	return publisher
}
