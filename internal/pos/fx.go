package pos

import (
	"github.com/vestrapos/vestra/internal/pos/repository"
	"github.com/vestrapos/vestra/internal/pos/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pos.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
