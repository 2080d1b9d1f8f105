package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/badgescan/internal/activity"
	"github.com/smallbiznis/badgescan/internal/clock"
	"github.com/smallbiznis/badgescan/internal/config"
	"github.com/smallbiznis/badgescan/internal/events"
	"github.com/smallbiznis/badgescan/internal/friendship"
	"github.com/smallbiznis/badgescan/internal/migration"
	"github.com/smallbiznis/badgescan/internal/observability"
	"github.com/smallbiznis/badgescan/internal/ratelimit"
	"github.com/smallbiznis/badgescan/internal/scan"
	"github.com/smallbiznis/badgescan/internal/server"
	"github.com/smallbiznis/badgescan/internal/user"
	"github.com/smallbiznis/badgescan/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		events.Module,
		ratelimit.Module,

		user.Module,
		activity.Module,
		scan.Module,
		friendship.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
