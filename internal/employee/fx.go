package employee

import (
	"github.com/vestrapos/vestra/internal/employee/repository"
	"github.com/vestrapos/vestra/internal/employee/service"
	"go.uber.org/fx"
)

var Module = fx.Module("employee.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
