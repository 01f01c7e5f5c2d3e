package settings

import (
	"github.com/vestrapos/vestra/internal/settings/repository"
	"github.com/vestrapos/vestra/internal/settings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
