package product

import (
	"github.com/fatturo/fatturo/internal/product/repository"
	"github.com/fatturo/fatturo/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
