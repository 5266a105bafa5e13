package journal

import (
	"github.com/fatturo/fatturo/internal/journal/repository"
	"github.com/fatturo/fatturo/internal/journal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("journal.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
