package friendship

import (
	"github.com/smallbiznis/badgescan/internal/friendship/repository"
	"github.com/smallbiznis/badgescan/internal/friendship/service"
	"go.uber.org/fx"
)

var Module = fx.Module("friendship.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
