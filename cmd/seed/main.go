package main

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/badgescan/internal/activity"
	"github.com/smallbiznis/badgescan/internal/clock"
	"github.com/smallbiznis/badgescan/internal/config"
	"github.com/smallbiznis/badgescan/internal/migration"
	"github.com/smallbiznis/badgescan/internal/observability"
	"github.com/smallbiznis/badgescan/internal/ratelimit"
	"github.com/smallbiznis/badgescan/internal/scan"
	"github.com/smallbiznis/badgescan/internal/seed"
	"github.com/smallbiznis/badgescan/internal/user"
	"github.com/smallbiznis/badgescan/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		ratelimit.Module,

		user.Module,
		activity.Module,
		scan.Module,
		seed.Module,

		fx.Invoke(runImport),
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}

func runImport(lc fx.Lifecycle, sd fx.Shutdowner, cfg config.Config, importer *seed.Importer, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				summary, err := importer.ImportFile(context.Background(), cfg.SeedFile)
				if err != nil {
					log.Error("seed import failed", zap.String("file", cfg.SeedFile), zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
					return
				}
				log.Info("seed import finished",
					zap.String("file", cfg.SeedFile),
					zap.Int("users", summary.Users),
					zap.Int("scans", summary.Scans),
				)
				_ = sd.Shutdown()
			}()
			return nil
		},
	})
}
