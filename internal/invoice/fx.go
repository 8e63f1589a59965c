package invoice

import (
	"github.com/snusnumrick/dojoflow/internal/invoice/repository"
	"github.com/snusnumrick/dojoflow/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
