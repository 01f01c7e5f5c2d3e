package tenant

import (
	"github.com/vestrapos/vestra/internal/tenant/repository"
	"github.com/vestrapos/vestra/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
