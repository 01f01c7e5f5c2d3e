package purchase

import (
	"github.com/vestrapos/vestra/internal/purchase/repository"
	"github.com/vestrapos/vestra/internal/purchase/service"
	"go.uber.org/fx"
)

var Module = fx.Module("purchase.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
