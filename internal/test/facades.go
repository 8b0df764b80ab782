package test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/posledger/internal/domain/errors"
	"github.com/polkiloo/posledger/internal/domain/model"
)

// SalesFacadeStub provides controllable behaviour for HTTP endpoints.
type SalesFacadeStub struct {
	RecordFn    func(context.Context, model.SaleInput) (*model.Order, bool, error)
	OrdersFn    func(context.Context, model.ListQuery) (*model.OrderPage, error)
	OrderFn     func(context.Context, string) (*model.Order, error)
	UpdateFn    func(context.Context, string, string) (*model.Order, error)
	DeleteFn    func(context.Context, string) error
	DeleteAllFn func(context.Context) (int64, error)
	DashboardFn func(context.Context, model.DashboardQuery) (*model.Dashboard, error)

	mu       sync.Mutex
	Recorded []model.SaleInput
}

// SampleOrder returns a stored order with deterministic timestamps.
func SampleOrder(orderID string) model.Order {
	at := time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)
	return model.Order{
		ID:      uuid.NewSHA1(uuid.NameSpaceOID, []byte(orderID)),
		OrderID: orderID,
		Items: []model.Item{
			{ProductID: "p1", Name: "Latte", Quantity: 2, UnitPrice: decimal.RequireFromString("4.50")},
		},
		TotalAmount:   decimal.RequireFromString("9.00"),
		Status:        model.OrderStatusCompleted,
		Timestamp:     at,
		Customer:      model.Customer{Name: model.DefaultCustomerName},
		Table:         model.DefaultTable,
		PaymentMethod: model.DefaultPaymentMethod,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}

// RecordSale delegates to RecordFn or echoes the input as a new order.
func (s *SalesFacadeStub) RecordSale(ctx context.Context, in model.SaleInput) (*model.Order, bool, error) {
	s.mu.Lock()
	s.Recorded = append(s.Recorded, in)
	s.mu.Unlock()
	if s.RecordFn != nil {
		return s.RecordFn(ctx, in)
	}
	order := SampleOrder(in.OrderID)
	return &order, true, nil
}

// Orders returns a single sample order unless OrdersFn is set.
func (s *SalesFacadeStub) Orders(ctx context.Context, q model.ListQuery) (*model.OrderPage, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, q)
	}
	return &model.OrderPage{Orders: []model.Order{SampleOrder("ORD-1")}, Total: 1, Page: 1, Limit: 20, TotalPages: 1}, nil
}

// Order returns a sample order for any id.
func (s *SalesFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	order := SampleOrder("ORD-1")
	return &order, nil
}

// UpdateOrderStatus applies status to a sample order.
func (s *SalesFacadeStub) UpdateOrderStatus(ctx context.Context, id, status string) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, status)
	}
	parsed, ok := model.ParseOrderStatus(status)
	if !ok {
		return nil, domainErrors.Invalidf(domainErrors.ErrInvalidStatus, "unknown status %q", status)
	}
	order := SampleOrder("ORD-1")
	order.Status = parsed
	return &order, nil
}

// DeleteOrder succeeds unless DeleteFn says otherwise.
func (s *SalesFacadeStub) DeleteOrder(ctx context.Context, id string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

// DeleteAllOrders reports zero deletions by default.
func (s *SalesFacadeStub) DeleteAllOrders(ctx context.Context) (int64, error) {
	if s.DeleteAllFn != nil {
		return s.DeleteAllFn(ctx)
	}
	return 0, nil
}

// Dashboard returns an empty daily dashboard by default.
func (s *SalesFacadeStub) Dashboard(ctx context.Context, q model.DashboardQuery) (*model.Dashboard, error) {
	if s.DashboardFn != nil {
		return s.DashboardFn(ctx, q)
	}
	day := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	return &model.Dashboard{
		Window: model.ReportWindow{
			Period:      model.PeriodDay,
			Range:       model.TimeRange{From: day, To: model.EndOfDay(day, time.UTC)},
			Granularity: model.GranularityDay,
		},
		Trend: []model.Bucket{},
	}, nil
}

// HealthCheckerStub reports the configured error.
type HealthCheckerStub struct {
	Err error
}

// HealthCheck returns Err.
func (s HealthCheckerStub) HealthCheck(context.Context) error {
	return s.Err
}
