package referral

import (
	"github.com/vestrapos/vestra/internal/referral/repository"
	"github.com/vestrapos/vestra/internal/referral/service"
	"go.uber.org/fx"
)

var Module = fx.Module("referral.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
