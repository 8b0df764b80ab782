package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/posledger/internal/domain/errors"
	"github.com/polkiloo/posledger/internal/domain/model"
	"github.com/polkiloo/posledger/internal/domain/repository"
)

// IngestResult reports the stored order and whether this call created it.
type IngestResult struct {
	Order   *model.Order
	Created bool
}

// IngestionUseCase records completed sales exactly once per order id.
type IngestionUseCase struct {
	orders  repository.OrderRepository
	cache   repository.ReplayCache
	catalog repository.ProductCatalog
	ids     IDGenerator
	clock   Clock
	logger  *slog.Logger
}

// NewIngestionUseCase constructs IngestionUseCase.
func NewIngestionUseCase(
	orders repository.OrderRepository,
	cache repository.ReplayCache,
	catalog repository.ProductCatalog,
	ids IDGenerator,
	clock Clock,
	logger *slog.Logger,
) *IngestionUseCase {
	return &IngestionUseCase{orders: orders, cache: cache, catalog: catalog, ids: ids, clock: clock, logger: logger}
}

// Amounts are stored as NUMERIC(14,2).
var amountLimit = decimal.New(1, 12)

func amountFits(d decimal.Decimal) bool {
	return d.Equal(d.Round(2)) && d.Abs().LessThan(amountLimit)
}

// ValidateSale checks a sale payload before anything touches the store.
func ValidateSale(in model.SaleInput) error {
	if in.Total == nil {
		return domainErrors.Invalidf(domainErrors.ErrInvalidInput, "total amount is required")
	}
	if in.Total.IsNegative() {
		return domainErrors.Invalidf(domainErrors.ErrInvalidInput, "total amount must not be negative")
	}
	if !amountFits(*in.Total) {
		return domainErrors.Invalidf(domainErrors.ErrInvalidInput, "total amount must have at most 2 decimals and 12 integer digits")
	}
	if len(in.Items) == 0 {
		return domainErrors.Invalidf(domainErrors.ErrInvalidInput, "order must contain at least one item")
	}
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return domainErrors.Invalidf(domainErrors.ErrInvalidInput, "item %d: quantity must be positive", i+1)
		}
		if it.UnitPrice.IsNegative() {
			return domainErrors.Invalidf(domainErrors.ErrInvalidInput, "item %d: price must not be negative", i+1)
		}
		if !amountFits(it.UnitPrice) {
			return domainErrors.Invalidf(domainErrors.ErrInvalidInput, "item %d: price must have at most 2 decimals and 12 integer digits", i+1)
		}
	}
	return nil
}

// Ingest stores the sale unless its order id was seen before, in which case
// the original record is returned untouched.
func (u *IngestionUseCase) Ingest(ctx context.Context, in model.SaleInput) (*IngestResult, error) {
	if err := ValidateSale(in); err != nil {
		return nil, err
	}

	orderID := strings.TrimSpace(in.OrderID)
	if orderID == "" {
		orderID = u.ids.NewOrderID()
	}

	if existing := u.replay(ctx, orderID); existing != nil {
		return &IngestResult{Order: existing}, nil
	}

	order := u.buildOrder(ctx, orderID, in)
	stored, created, err := u.orders.UpsertIfAbsent(ctx, order)
	if err != nil {
		return nil, err
	}

	u.remember(ctx, stored)

	if created {
		u.logger.Info("order recorded", slog.String("order_id", stored.OrderID), slog.String("total", stored.TotalAmount.String()))
	} else {
		u.logger.Info("order replayed", slog.String("order_id", stored.OrderID))
	}
	return &IngestResult{Order: stored, Created: created}, nil
}

// replay returns the stored order for orderID, if any. The cache is tried
// first; a miss, a stale entry or a cache failure falls back to the store.
func (u *IngestionUseCase) replay(ctx context.Context, orderID string) *model.Order {
	if existing := u.replayFromCache(ctx, orderID); existing != nil {
		u.logger.Info("order replayed from cache", slog.String("order_id", orderID))
		return existing
	}

	existing, err := u.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, domainErrors.ErrNotFound) {
			u.logger.Warn("replay lookup failed", slog.String("order_id", orderID), slog.String("error", err.Error()))
		}
		return nil
	}
	u.remember(ctx, existing)
	return existing
}

func (u *IngestionUseCase) replayFromCache(ctx context.Context, orderID string) *model.Order {
	id, ok, err := u.cache.Lookup(ctx, orderID)
	if err != nil {
		u.logger.Warn("replay cache lookup failed", slog.String("order_id", orderID), slog.String("error", err.Error()))
		return nil
	}
	if !ok {
		return nil
	}

	existing, err := u.orders.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domainErrors.ErrNotFound) {
			u.logger.Warn("replay lookup failed", slog.String("order_id", orderID), slog.String("error", err.Error()))
		}
		return nil
	}
	if existing.OrderID != orderID {
		return nil
	}
	return existing
}

func (u *IngestionUseCase) remember(ctx context.Context, order *model.Order) {
	if err := u.cache.Remember(ctx, order.OrderID, order.ID); err != nil {
		u.logger.Warn("replay cache write failed", slog.String("order_id", order.OrderID), slog.String("error", err.Error()))
	}
}

func (u *IngestionUseCase) buildOrder(ctx context.Context, orderID string, in model.SaleInput) *model.Order {
	customer := in.Customer
	customer.Name = strings.TrimSpace(customer.Name)
	if customer.Name == "" {
		customer.Name = model.DefaultCustomerName
	}
	if customer.Guests < 0 {
		customer.Guests = 0
	}

	table := strings.TrimSpace(in.Table)
	if table == "" {
		table = model.DefaultTable
	}
	payment := strings.TrimSpace(in.PaymentMethod)
	if payment == "" {
		payment = model.DefaultPaymentMethod
	}

	return &model.Order{
		OrderID:       orderID,
		Items:         u.enrichItems(ctx, in.Items),
		TotalAmount:   *in.Total,
		Status:        model.OrderStatusCompleted,
		Timestamp:     u.clock.Now(),
		Customer:      customer,
		Table:         table,
		PaymentMethod: payment,
	}
}

// enrichItems names catalog products that arrived without a name.
func (u *IngestionUseCase) enrichItems(ctx context.Context, items []model.Item) []model.Item {
	out := make([]model.Item, len(items))
	copy(out, items)
	for i := range out {
		out[i].Name = strings.TrimSpace(out[i].Name)
		if out[i].Name != "" || out[i].ProductID == "" {
			continue
		}
		name, err := u.catalog.ProductName(ctx, out[i].ProductID)
		if err != nil {
			u.logger.Debug("catalog lookup skipped", slog.String("product_id", out[i].ProductID), slog.String("error", err.Error()))
			continue
		}
		out[i].Name = name
	}
	return out
}
