package document

import (
	"github.com/fatturo/fatturo/internal/document/numbering"
	"github.com/fatturo/fatturo/internal/document/repository"
	"github.com/fatturo/fatturo/internal/document/service"
	"github.com/fatturo/fatturo/internal/inventory"
	"go.uber.org/fx"
)

var Module = fx.Module("document.service",
	inventory.Module,
	fx.Provide(numbering.NewAllocator),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
