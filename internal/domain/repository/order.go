package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/polkiloo/posledger/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// UpsertIfAbsent stores order unless its OrderID is already taken, in which
	// case the stored record is returned unchanged with inserted=false.
	UpsertIfAbsent(ctx context.Context, order *model.Order) (*model.Order, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetByOrderID(ctx context.Context, orderID string) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter, page model.PageRequest) ([]model.Order, int64, error)
	Totals(ctx context.Context, filter model.AggregateFilter) (model.Totals, error)
	Aggregate(ctx context.Context, filter model.AggregateFilter, granularity model.Granularity) ([]model.Bucket, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}
