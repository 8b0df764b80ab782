package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/posledger/internal/domain/errors"
	"github.com/polkiloo/posledger/internal/domain/model"
	"github.com/polkiloo/posledger/internal/test"
)

func TestValidateSale(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.SaleInput)
	}{
		{"missing total", func(in *model.SaleInput) { in.Total = nil }},
		{"negative total", func(in *model.SaleInput) { in.Total = amount("-1") }},
		{"no items", func(in *model.SaleInput) { in.Items = nil }},
		{"zero quantity", func(in *model.SaleInput) { in.Items[0].Quantity = 0 }},
		{"negative price", func(in *model.SaleInput) { in.Items[1].UnitPrice = decimal.NewFromInt(-5) }},
		{"total with three decimals", func(in *model.SaleInput) { in.Total = amount("10.005") }},
		{"total overflows column", func(in *model.SaleInput) { in.Total = amount("1000000000000") }},
		{"price with three decimals", func(in *model.SaleInput) { in.Items[0].UnitPrice = decimal.RequireFromString("4.555") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := saleInput("ORD-1", "600")
			tc.mutate(&in)
			if err := ValidateSale(in); !errors.Is(err, domainErrors.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}

	if err := ValidateSale(saleInput("ORD-1", "0")); err != nil {
		t.Fatalf("zero total should be accepted, got %v", err)
	}
	for _, total := range []string{"10.50", "10.500", "999999999999.99"} {
		if err := ValidateSale(saleInput("ORD-1", total)); err != nil {
			t.Fatalf("total %s should be accepted, got %v", total, err)
		}
	}
}

func TestIngestRejectsInvalidBeforeStore(t *testing.T) {
	f := newIngestionFixture()
	in := saleInput("", "600")
	in.Items = nil

	if _, err := f.uc.Ingest(context.Background(), in); !errors.Is(err, domainErrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if f.repo.Len() != 0 {
		t.Fatalf("expected nothing stored, got %d", f.repo.Len())
	}
}

func TestIngestAppliesDefaults(t *testing.T) {
	f := newIngestionFixture()

	res, err := f.uc.Ingest(context.Background(), saleInput("", "600"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Created {
		t.Fatal("expected order to be created")
	}

	o := res.Order
	if o.OrderID != "GEN-001" {
		t.Errorf("expected generated order id, got %q", o.OrderID)
	}
	if o.Customer.Name != model.DefaultCustomerName || o.Table != model.DefaultTable || o.PaymentMethod != model.DefaultPaymentMethod {
		t.Errorf("defaults not applied: %+v", o)
	}
	if o.Status != model.OrderStatusCompleted {
		t.Errorf("expected completed status, got %s", o.Status)
	}
	if !o.Timestamp.Equal(testNow) {
		t.Errorf("expected timestamp from clock, got %v", o.Timestamp)
	}
	if !o.TotalAmount.Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected client total to be kept, got %s", o.TotalAmount)
	}
	if o.ID == uuid.Nil {
		t.Error("expected internal id to be assigned")
	}
}

func TestIngestKeepsClientTotal(t *testing.T) {
	f := newIngestionFixture()

	res, err := f.uc.Ingest(context.Background(), saleInput("ORD-T", "1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Order.TotalAmount.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("total must not be recomputed from items, got %s", res.Order.TotalAmount)
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	f := newIngestionFixture()
	ctx := context.Background()

	first, err := f.uc.Ingest(ctx, saleInput(" ORD-77 ", "600"))
	if err != nil || !first.Created {
		t.Fatalf("unexpected first result: %+v err=%v", first, err)
	}

	for i := 0; i < 5; i++ {
		replay := saleInput("ORD-77", "999")
		replay.Customer.Name = "Someone Else"
		res, err := f.uc.Ingest(ctx, replay)
		if err != nil {
			t.Fatalf("replay %d failed: %v", i, err)
		}
		if res.Created {
			t.Fatalf("replay %d reported creation", i)
		}
		if res.Order.ID != first.Order.ID || !res.Order.TotalAmount.Equal(decimal.NewFromInt(600)) || res.Order.Customer.Name != model.DefaultCustomerName {
			t.Fatalf("replay %d returned a different record: %+v", i, res.Order)
		}
	}

	if f.repo.Len() != 1 || f.repo.Inserts() != 1 {
		t.Fatalf("expected exactly one stored order, got len=%d inserts=%d", f.repo.Len(), f.repo.Inserts())
	}
}

func TestIngestCreatedMatchesReplay(t *testing.T) {
	f := newIngestionFixture()
	f.uc.clock = test.FixedClock{At: testNow.Add(123456789 * time.Nanosecond)}
	ctx := context.Background()

	first, err := f.uc.Ingest(ctx, saleInput("ORD-P", "10.50"))
	if err != nil || !first.Created {
		t.Fatalf("unexpected first result: %+v err=%v", first, err)
	}
	f.cache.LookupErr = errors.New("cache down")
	again, err := f.uc.Ingest(ctx, saleInput("ORD-P", "10.50"))
	if err != nil || again.Created {
		t.Fatalf("unexpected replay result: %+v err=%v", again, err)
	}

	if !first.Order.Timestamp.Equal(again.Order.Timestamp) || !first.Order.TotalAmount.Equal(again.Order.TotalAmount) {
		t.Fatalf("created %v/%s differs from replay %v/%s",
			first.Order.Timestamp, first.Order.TotalAmount, again.Order.Timestamp, again.Order.TotalAmount)
	}
	if first.Order.Timestamp.Nanosecond()%1000 != 0 {
		t.Fatalf("expected microsecond precision, got %v", first.Order.Timestamp)
	}
}

func TestIngestConcurrentReplayYieldsSingleRecord(t *testing.T) {
	f := newIngestionFixture()
	const callers = 16

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = make(map[uuid.UUID]struct{})
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.uc.Ingest(context.Background(), saleInput("ORD-RACE", "600"))
			if err != nil {
				t.Errorf("ingest failed: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if res.Created {
				created++
			}
			ids[res.Order.ID] = struct{}{}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Fatalf("expected exactly one creation, got %d", created)
	}
	if len(ids) != 1 || f.repo.Len() != 1 {
		t.Fatalf("expected a single record, got ids=%d stored=%d", len(ids), f.repo.Len())
	}
}

func TestIngestReplayCacheFastPath(t *testing.T) {
	f := newIngestionFixture()
	ctx := context.Background()

	first, err := f.uc.Ingest(ctx, saleInput("ORD-C", "600"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id, ok, _ := f.cache.Lookup(ctx, "ORD-C")
	if !ok || id != first.Order.ID {
		t.Fatalf("expected cache to remember %v, got %v ok=%v", first.Order.ID, id, ok)
	}

	res, err := f.uc.Ingest(ctx, saleInput("ORD-C", "600"))
	if err != nil || res.Created || res.Order.ID != first.Order.ID {
		t.Fatalf("unexpected cached replay: %+v err=%v", res, err)
	}
	if f.repo.Inserts() != 1 {
		t.Fatalf("expected no further writes, got %d", f.repo.Inserts())
	}
}

func TestIngestReplaysFromStoreOnCacheMiss(t *testing.T) {
	f := newIngestionFixture()
	ctx := context.Background()
	earlier := testNow.Add(-time.Hour)
	f.repo.Seed(completedOrder("ORD-OLD", "250", earlier))

	res, err := f.uc.Ingest(ctx, saleInput("ORD-OLD", "600"))
	if err != nil || res.Created {
		t.Fatalf("expected replay from store, got %+v err=%v", res, err)
	}
	if !res.Order.Timestamp.Equal(earlier) || !res.Order.TotalAmount.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected the stored order, got %+v", res.Order)
	}
	if f.repo.Inserts() != 0 {
		t.Fatalf("expected no insert attempt, got %d", f.repo.Inserts())
	}
	if id, ok, _ := f.cache.Lookup(ctx, "ORD-OLD"); !ok || id != res.Order.ID {
		t.Fatalf("expected cache to be warmed with %v, got %v ok=%v", res.Order.ID, id, ok)
	}
}

func TestIngestFallsBackWhenCacheMisbehaves(t *testing.T) {
	ctx := context.Background()

	t.Run("lookup error", func(t *testing.T) {
		f := newIngestionFixture()
		f.cache.LookupErr = errors.New("redis down")
		f.cache.RememberErr = errors.New("redis down")

		res, err := f.uc.Ingest(ctx, saleInput("ORD-E", "600"))
		if err != nil || !res.Created {
			t.Fatalf("expected store to decide, got %+v err=%v", res, err)
		}
		res, err = f.uc.Ingest(ctx, saleInput("ORD-E", "600"))
		if err != nil || res.Created {
			t.Fatalf("expected replay from store, got %+v err=%v", res, err)
		}
	})

	t.Run("stale entry", func(t *testing.T) {
		f := newIngestionFixture()
		_ = f.cache.Remember(ctx, "ORD-S", uuid.New())

		res, err := f.uc.Ingest(ctx, saleInput("ORD-S", "600"))
		if err != nil || !res.Created {
			t.Fatalf("expected creation despite stale cache, got %+v err=%v", res, err)
		}
	})

	t.Run("entry for another order", func(t *testing.T) {
		f := newIngestionFixture()
		other, err := f.uc.Ingest(ctx, saleInput("ORD-A", "600"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_ = f.cache.Remember(ctx, "ORD-B", other.Order.ID)

		res, err := f.uc.Ingest(ctx, saleInput("ORD-B", "100"))
		if err != nil || !res.Created || res.Order.OrderID != "ORD-B" {
			t.Fatalf("expected ORD-B to be created, got %+v err=%v", res, err)
		}
	})

	t.Run("store error during replay lookup", func(t *testing.T) {
		f := newIngestionFixture()
		_ = f.cache.Remember(ctx, "ORD-X", uuid.New())
		f.repo.Err = errors.New("db down")

		if _, err := f.uc.Ingest(ctx, saleInput("ORD-X", "600")); err == nil {
			t.Fatal("expected store failure to surface from upsert")
		}
	})
}

func TestIngestEnrichesItemsFromCatalog(t *testing.T) {
	f := newIngestionFixture()
	in := saleInput("ORD-CAT", "1200")
	in.Items = []model.Item{
		{ProductID: "p-karahi", Quantity: 1, UnitPrice: decimal.NewFromInt(1200)},
		{ProductID: "p-unknown", Quantity: 1, UnitPrice: decimal.Zero},
		{ProductID: "p-karahi", Name: "Custom", Quantity: 1, UnitPrice: decimal.Zero},
	}

	res, err := f.uc.Ingest(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := res.Order.Items
	if items[0].Name != "Chicken Karahi" || items[1].Name != "" || items[2].Name != "Custom" {
		t.Fatalf("unexpected enrichment: %+v", items)
	}
	if in.Items[0].Name != "" {
		t.Fatal("input items must not be mutated")
	}
}

func TestIngestPropagatesStoreFailure(t *testing.T) {
	f := newIngestionFixture()
	f.repo.Err = errors.New("db down")

	if _, err := f.uc.Ingest(context.Background(), saleInput("ORD-F", "600")); err == nil || errors.Is(err, domainErrors.ErrInvalidInput) {
		t.Fatalf("expected store failure, got %v", err)
	}
}
