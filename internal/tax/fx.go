package tax

import (
	"github.com/snusnumrick/dojoflow/internal/tax/repository"
	"github.com/snusnumrick/dojoflow/internal/tax/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tax.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
