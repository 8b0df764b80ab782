package usecase

import (
	"context"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/posledger/internal/domain/errors"
	"github.com/polkiloo/posledger/internal/domain/model"
	"github.com/polkiloo/posledger/internal/domain/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxPageLimit = 100
)

// QueryUseCase serves order listings and single-record operations.
type QueryUseCase struct {
	orders   repository.OrderRepository
	settings Settings
}

// NewQueryUseCase constructs QueryUseCase.
func NewQueryUseCase(orders repository.OrderRepository, settings Settings) *QueryUseCase {
	return &QueryUseCase{orders: orders, settings: settings}
}

// List returns one page of orders, newest first.
func (u *QueryUseCase) List(ctx context.Context, q model.ListQuery) (*model.OrderPage, error) {
	page, limit := q.Page, q.Limit
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if page < 0 {
		return nil, domainErrors.Invalidf(domainErrors.ErrInvalidInput, "page must be a positive integer")
	}
	if limit < 0 {
		return nil, domainErrors.Invalidf(domainErrors.ErrInvalidInput, "limit must be a positive integer")
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	filter := model.OrderFilter{Search: q.Search}
	if q.StartDate != "" && q.EndDate != "" {
		r, err := u.dateRange(q.StartDate, q.EndDate)
		if err != nil {
			return nil, err
		}
		filter.Range = &r
	}

	orders, total, err := u.orders.List(ctx, filter, model.PageRequest{Offset: (page - 1) * limit, Limit: limit})
	if err != nil {
		return nil, err
	}

	return &model.OrderPage{
		Orders:     orders,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}

// dateRange spans from the start instant to the end of the end date's day.
func (u *QueryUseCase) dateRange(rawStart, rawEnd string) (model.TimeRange, error) {
	loc := u.settings.Location
	start, err := model.ParseDate(rawStart, loc)
	if err != nil {
		return model.TimeRange{}, err
	}
	end, err := model.ParseDate(rawEnd, loc)
	if err != nil {
		return model.TimeRange{}, err
	}
	r := model.TimeRange{From: start, To: model.EndOfDay(end, loc)}
	if r.From.After(r.To) {
		return model.TimeRange{}, domainErrors.Invalidf(domainErrors.ErrInvalidDateRange, "startDate %s is after endDate %s", rawStart, rawEnd)
	}
	return r, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domainErrors.ErrNotFound
	}
	return id, nil
}

// Get returns a single order by internal id.
func (u *QueryUseCase) Get(ctx context.Context, rawID string) (*model.Order, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	return u.orders.GetByID(ctx, id)
}

// UpdateStatus moves an order between completed and refunded.
func (u *QueryUseCase) UpdateStatus(ctx context.Context, rawID, rawStatus string) (*model.Order, error) {
	status, ok := model.ParseOrderStatus(rawStatus)
	if !ok {
		return nil, domainErrors.Invalidf(domainErrors.ErrInvalidStatus, "unknown status %q", rawStatus)
	}
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	return u.orders.UpdateStatus(ctx, id, status)
}

// Delete removes a single order.
func (u *QueryUseCase) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	removed, err := u.orders.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return domainErrors.ErrNotFound
	}
	return nil
}

// DeleteAll removes every order and reports how many were removed.
func (u *QueryUseCase) DeleteAll(ctx context.Context) (int64, error) {
	return u.orders.DeleteAll(ctx)
}
