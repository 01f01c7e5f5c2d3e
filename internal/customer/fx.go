package customer

import (
	"github.com/vestrapos/vestra/internal/customer/repository"
	"github.com/vestrapos/vestra/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
