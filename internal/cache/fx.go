package cache

import (
	"context"

	"github.com/vestrapos/vestra/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module wires the shared cache, falling back to a noop when Redis is
// not configured.
var Module = fx.Module("cache",
	fx.Provide(New),
)

func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) Cache {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured, using noop cache")
		return Noop{}
	}

	client := NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx); err != nil {
				log.Warn("redis unreachable at startup", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			_ = ctx
			return client.Close()
		},
	})
	return client
}
