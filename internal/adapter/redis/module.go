package redis

import (
	"context"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/posledger/internal/config"
	"github.com/polkiloo/posledger/internal/domain/repository"
)

// Module provides the replay cache, falling back to a no-op when Redis is not configured.
var Module = fx.Provide(newReplayCache)

type cacheParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newReplayCache(p cacheParams) repository.ReplayCache {
	if p.Config.RedisAddress == "" {
		p.Logger.Info("replay cache disabled")
		return Disabled{}
	}

	client := goredis.NewClient(&goredis.Options{Addr: p.Config.RedisAddress})
	registerLifecycle(p.Lifecycle, client, p.Logger)
	return NewReplayCache(client)
}

type pinger interface {
	Ping(ctx context.Context) *goredis.StatusCmd
	Close() error
}

func registerLifecycle(lc fx.Lifecycle, client pinger, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("replay cache unreachable, continuing without fast path", slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
}
