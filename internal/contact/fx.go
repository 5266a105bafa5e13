package contact

import (
	"github.com/fatturo/fatturo/internal/contact/repository"
	"github.com/fatturo/fatturo/internal/contact/service"
	"go.uber.org/fx"
)

var Module = fx.Module("contact.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
