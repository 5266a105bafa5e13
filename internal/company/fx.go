package company

import (
	"github.com/fatturo/fatturo/internal/company/repository"
	"github.com/fatturo/fatturo/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
