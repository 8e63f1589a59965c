package payment

import (
	"github.com/snusnumrick/dojoflow/internal/payment/repository"
	"github.com/snusnumrick/dojoflow/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
