package ratelimit

import (
	"context"

	"github.com/smallbiznis/housing/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("rate.limit",
	fx.Provide(provideWriteLimiter),
)

func provideWriteLimiter(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*WriteLimiter, error) {
	limiter, err := NewWriteLimiter(cfg, log)
	if err != nil || limiter == nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return limiter.Close()
		},
	})
	return limiter, nil
}
