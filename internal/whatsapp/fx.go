package whatsapp

import (
	"github.com/vestrapos/vestra/internal/whatsapp/bridge"
	"go.uber.org/fx"
)

var Module = fx.Module("whatsapp.service",
	fx.Provide(bridge.New),
	fx.Provide(New),
)
