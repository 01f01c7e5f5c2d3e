package commission

import (
	"github.com/vestrapos/vestra/internal/commission/repository"
	"github.com/vestrapos/vestra/internal/commission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("commission.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
