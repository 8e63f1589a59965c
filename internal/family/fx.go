package family

import (
	"github.com/snusnumrick/dojoflow/internal/family/repository"
	"github.com/snusnumrick/dojoflow/internal/family/service"
	"go.uber.org/fx"
)

var Module = fx.Module("family.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
