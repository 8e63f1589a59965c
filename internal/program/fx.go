package program

import (
	"github.com/snusnumrick/dojoflow/internal/program/repository"
	"github.com/snusnumrick/dojoflow/internal/program/service"
	"go.uber.org/fx"
)

var Module = fx.Module("program.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
