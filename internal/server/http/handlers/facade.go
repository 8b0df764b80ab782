package handlers

import (
	"context"

	"github.com/polkiloo/posledger/internal/domain/model"
)

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	RecordSale(ctx context.Context, in model.SaleInput) (*model.Order, bool, error)
	Orders(ctx context.Context, q model.ListQuery) (*model.OrderPage, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	DeleteAllOrders(ctx context.Context) (int64, error)
}

// DashboardFacade provides sales analytics.
type DashboardFacade interface {
	Dashboard(ctx context.Context, q model.DashboardQuery) (*model.Dashboard, error)
}

// SalesFacade aggregates the full set of operations used across handlers.
type SalesFacade interface {
	OrderFacade
	DashboardFacade
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
