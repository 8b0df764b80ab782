package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/polkiloo/posledger/internal/domain/model"
	"github.com/polkiloo/posledger/internal/domain/repository"
)

// AnalyticsUseCase builds dashboard KPIs and the sales trend.
type AnalyticsUseCase struct {
	orders   repository.OrderRepository
	settings Settings
	clock    Clock
}

// NewAnalyticsUseCase constructs AnalyticsUseCase.
func NewAnalyticsUseCase(orders repository.OrderRepository, settings Settings, clock Clock) *AnalyticsUseCase {
	return &AnalyticsUseCase{orders: orders, settings: settings, clock: clock}
}

// Dashboard aggregates completed orders inside the requested period.
func (u *AnalyticsUseCase) Dashboard(ctx context.Context, q model.DashboardQuery) (*model.Dashboard, error) {
	window, err := ResolvePeriod(q, u.clock.Now(), u.settings.Location)
	if err != nil {
		return nil, err
	}

	filter := model.AggregateFilter{
		Status:   model.OrderStatusCompleted,
		Range:    window.Range,
		Location: u.settings.Location,
	}

	var (
		totals model.Totals
		trend  []model.Bucket
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = u.orders.Totals(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		trend, err = u.orders.Aggregate(gctx, filter, window.Granularity)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if trend == nil {
		trend = []model.Bucket{}
	}
	return &model.Dashboard{
		Window: window,
		KPI:    ComputeKPI(totals, u.settings.ProfitMargin),
		Trend:  trend,
	}, nil
}

// ComputeKPI derives the summary block; ratios round half away from zero to whole units.
func ComputeKPI(t model.Totals, margin decimal.Decimal) model.KPI {
	kpi := model.KPI{
		Revenue:   t.Revenue,
		Orders:    t.Orders,
		AOV:       decimal.Zero,
		NetProfit: t.Revenue.Mul(margin).Round(0),
	}
	if t.Orders > 0 {
		kpi.AOV = t.Revenue.Div(decimal.NewFromInt(t.Orders)).Round(0)
	}
	return kpi
}
