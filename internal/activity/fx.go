package activity

import (
	"github.com/smallbiznis/badgescan/internal/activity/repository"
	"github.com/smallbiznis/badgescan/internal/activity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("activity.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
