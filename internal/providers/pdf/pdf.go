// Package pdf renders printable receipts for completed sales.
package pdf

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Provider struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Provider {
	return &Provider{log: log.Named("providers.pdf")}
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
