package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/posledger/internal/adapter/catalog"
	"github.com/polkiloo/posledger/internal/adapter/redis"
	"github.com/polkiloo/posledger/internal/app"
	"github.com/polkiloo/posledger/internal/config"
	"github.com/polkiloo/posledger/internal/logger"
	"github.com/polkiloo/posledger/internal/server/http/handlers"
	"github.com/polkiloo/posledger/internal/server/http/router"
	"github.com/polkiloo/posledger/internal/storage/postgres"
	"github.com/polkiloo/posledger/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		redis.Module,
		catalog.Module,
		usecase.Module,
		fx.Provide(
			func(f *app.SalesFacade) handlers.SalesFacade { return f },
			func(s *postgres.Storage) handlers.HealthChecker { return s },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
