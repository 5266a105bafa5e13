package tax

import (
	"github.com/fatturo/fatturo/internal/tax/repository"
	"github.com/fatturo/fatturo/internal/tax/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tax.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
