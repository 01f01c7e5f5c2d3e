package businesstype

import (
	"github.com/vestrapos/vestra/internal/businesstype/repository"
	"github.com/vestrapos/vestra/internal/businesstype/service"
	"go.uber.org/fx"
)

var Module = fx.Module("businesstype.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
