package enrollment

import (
	"github.com/snusnumrick/dojoflow/internal/enrollment/repository"
	"github.com/snusnumrick/dojoflow/internal/enrollment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("enrollment.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
