package discount

import (
	"github.com/snusnumrick/dojoflow/internal/discount/repository"
	"github.com/snusnumrick/dojoflow/internal/discount/service"
	"go.uber.org/fx"
)

var Module = fx.Module("discount.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
