package app

import (
	"context"

	"github.com/polkiloo/posledger/internal/domain/model"
	"github.com/polkiloo/posledger/internal/usecase"
)

// SalesFacade exposes ingestion, order management and analytics to transport layers.
type SalesFacade struct {
	ingestion *usecase.IngestionUseCase
	orders    *usecase.QueryUseCase
	analytics *usecase.AnalyticsUseCase
}

func NewSalesFacade(ingestion *usecase.IngestionUseCase, orders *usecase.QueryUseCase, analytics *usecase.AnalyticsUseCase) *SalesFacade {
	return &SalesFacade{ingestion: ingestion, orders: orders, analytics: analytics}
}

// RecordSale stores a sale, reporting false when the order id was already known.
func (f *SalesFacade) RecordSale(ctx context.Context, in model.SaleInput) (*model.Order, bool, error) {
	res, err := f.ingestion.Ingest(ctx, in)
	if err != nil {
		return nil, false, err
	}
	return res.Order, res.Created, nil
}

func (f *SalesFacade) Orders(ctx context.Context, q model.ListQuery) (*model.OrderPage, error) {
	return f.orders.List(ctx, q)
}

func (f *SalesFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *SalesFacade) UpdateOrderStatus(ctx context.Context, id, status string) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, id, status)
}

func (f *SalesFacade) DeleteOrder(ctx context.Context, id string) error {
	return f.orders.Delete(ctx, id)
}

func (f *SalesFacade) DeleteAllOrders(ctx context.Context) (int64, error) {
	return f.orders.DeleteAll(ctx)
}

func (f *SalesFacade) Dashboard(ctx context.Context, q model.DashboardQuery) (*model.Dashboard, error) {
	return f.analytics.Dashboard(ctx, q)
}
