package inventory

import (
	"github.com/vestrapos/vestra/internal/inventory/repository"
	"github.com/vestrapos/vestra/internal/inventory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
