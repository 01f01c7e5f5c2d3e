package plan

import (
	"github.com/vestrapos/vestra/internal/plan/gate"
	"github.com/vestrapos/vestra/internal/plan/repository"
	"github.com/vestrapos/vestra/internal/plan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	gate.Module,
)
