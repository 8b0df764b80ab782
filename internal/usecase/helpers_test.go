package usecase

import (
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/posledger/internal/domain/model"
	"github.com/polkiloo/posledger/internal/test"
)

var testNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testSettings() Settings {
	return Settings{Location: time.UTC, ProfitMargin: decimal.RequireFromString("0.4")}
}

func amount(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func saleInput(orderID, total string) model.SaleInput {
	return model.SaleInput{
		OrderID: orderID,
		Items: []model.Item{
			{Name: "Biryani", Quantity: 2, UnitPrice: decimal.NewFromInt(250)},
			{Name: "Tea", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		},
		Total: amount(total),
	}
}

func completedOrder(orderID, total string, at time.Time) model.Order {
	return model.Order{
		OrderID:     orderID,
		TotalAmount: decimal.RequireFromString(total),
		Status:      model.OrderStatusCompleted,
		Timestamp:   at,
		Customer:    model.Customer{Name: model.DefaultCustomerName},
	}
}

type ingestionFixture struct {
	repo    *test.OrderRepositoryStub
	cache   *test.ReplayCacheStub
	catalog test.CatalogStub
	ids     *test.SequenceIDs
	uc      *IngestionUseCase
}

func newIngestionFixture() *ingestionFixture {
	f := &ingestionFixture{
		repo:    test.NewOrderRepositoryStub(),
		cache:   &test.ReplayCacheStub{},
		catalog: test.CatalogStub{Names: map[string]string{"p-karahi": "Chicken Karahi"}},
		ids:     &test.SequenceIDs{Prefix: "GEN-"},
	}
	f.uc = NewIngestionUseCase(f.repo, f.cache, f.catalog, f.ids, test.FixedClock{At: testNow}, testLogger())
	return f
}
