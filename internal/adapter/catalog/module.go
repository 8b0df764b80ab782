package catalog

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/posledger/internal/config"
	"github.com/polkiloo/posledger/internal/domain/repository"
)

// Module exposes the product catalog client to fx graph.
var Module = fx.Provide(newCatalog)

type catalogParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newCatalog(p catalogParams) (repository.ProductCatalog, error) {
	if p.Config.CatalogAddress == "" {
		p.Logger.Info("product catalog disabled")
		return Disabled{}, nil
	}
	return NewHTTPClient(p.Config.CatalogAddress, p.Logger)
}
