package scan

import (
	"github.com/smallbiznis/badgescan/internal/scan/repository"
	"github.com/smallbiznis/badgescan/internal/scan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("scan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
