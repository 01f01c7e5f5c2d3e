package auth

import (
	"github.com/vestrapos/vestra/internal/auth/repository"
	"github.com/vestrapos/vestra/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
