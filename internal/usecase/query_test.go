package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/posledger/internal/domain/errors"
	"github.com/polkiloo/posledger/internal/domain/model"
	"github.com/polkiloo/posledger/internal/test"
)

func seededQuery(t *testing.T, orders ...model.Order) (*QueryUseCase, *test.OrderRepositoryStub) {
	t.Helper()
	repo := test.NewOrderRepositoryStub()
	repo.Seed(orders...)
	return NewQueryUseCase(repo, testSettings()), repo
}

func TestListPagination(t *testing.T) {
	var orders []model.Order
	for i := 0; i < 45; i++ {
		orders = append(orders, completedOrder(fmt.Sprintf("ORD-%03d", i), "10", testNow.Add(-time.Duration(i)*time.Minute)))
	}
	uc, _ := seededQuery(t, orders...)
	ctx := context.Background()

	page, err := uc.List(ctx, model.ListQuery{Page: 3, Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 45 || page.TotalPages != 3 || len(page.Orders) != 5 {
		t.Fatalf("unexpected page: total=%d pages=%d len=%d", page.Total, page.TotalPages, len(page.Orders))
	}

	page, err = uc.List(ctx, model.ListQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != DefaultPage || page.Limit != DefaultLimit || len(page.Orders) != DefaultLimit {
		t.Fatalf("expected defaults, got page=%d limit=%d len=%d", page.Page, page.Limit, len(page.Orders))
	}
	if page.Orders[0].OrderID != "ORD-000" || page.Orders[19].OrderID != "ORD-019" {
		t.Fatalf("expected newest first, got %s..%s", page.Orders[0].OrderID, page.Orders[19].OrderID)
	}

	page, err = uc.List(ctx, model.ListQuery{Page: 10, Limit: 20})
	if err != nil || len(page.Orders) != 0 || page.Total != 45 {
		t.Fatalf("expected empty page beyond end, got %+v err=%v", page, err)
	}

	page, err = uc.List(ctx, model.ListQuery{Limit: 1000})
	if err != nil || page.Limit != MaxPageLimit || len(page.Orders) != 45 {
		t.Fatalf("expected limit cap, got %+v err=%v", page, err)
	}
}

func TestListRejectsInvalidPaging(t *testing.T) {
	uc, _ := seededQuery(t)
	for _, q := range []model.ListQuery{{Page: -1}, {Limit: -5}} {
		if _, err := uc.List(context.Background(), q); !errors.Is(err, domainErrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", q, err)
		}
	}
}

func TestListSearch(t *testing.T) {
	a := completedOrder("ORD-ALPHA", "10", testNow)
	b := completedOrder("ORD-BETA", "10", testNow.Add(-time.Minute))
	b.Customer.Name = "Alpha Customer"
	c := completedOrder("ORD-GAMMA", "10", testNow.Add(-2*time.Minute))
	uc, _ := seededQuery(t, a, b, c)

	page, err := uc.List(context.Background(), model.ListQuery{Search: "alpha"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 2 || page.Orders[0].OrderID != "ORD-ALPHA" || page.Orders[1].OrderID != "ORD-BETA" {
		t.Fatalf("unexpected search result: %+v", page.Orders)
	}
}

func TestListDateRangeIsInclusive(t *testing.T) {
	startOfRange := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	lastInstant := time.Date(2024, 3, 12, 23, 59, 59, 0, time.UTC)
	uc, _ := seededQuery(t,
		completedOrder("BEFORE", "1", startOfRange.Add(-time.Second)),
		completedOrder("FIRST", "1", startOfRange),
		completedOrder("LAST", "1", lastInstant),
		completedOrder("AFTER", "1", time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)),
	)

	page, err := uc.List(context.Background(), model.ListQuery{StartDate: "2024-03-10", EndDate: "2024-03-12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 2 || page.Orders[0].OrderID != "LAST" || page.Orders[1].OrderID != "FIRST" {
		t.Fatalf("unexpected range result: %+v", page.Orders)
	}

	page, err = uc.List(context.Background(), model.ListQuery{StartDate: "2024-03-10"})
	if err != nil || page.Total != 4 {
		t.Fatalf("a single bound must be ignored, got %d err=%v", page.Total, err)
	}
}

func TestListDateErrors(t *testing.T) {
	uc, _ := seededQuery(t)
	ctx := context.Background()

	if _, err := uc.List(ctx, model.ListQuery{StartDate: "yesterday", EndDate: "2024-03-12"}); !errors.Is(err, domainErrors.ErrInvalidDate) {
		t.Fatalf("expected invalid date, got %v", err)
	}
	if _, err := uc.List(ctx, model.ListQuery{StartDate: "2024-03-12", EndDate: "2024-13-01"}); !errors.Is(err, domainErrors.ErrInvalidDate) {
		t.Fatalf("expected invalid date, got %v", err)
	}
	if _, err := uc.List(ctx, model.ListQuery{StartDate: "2024-03-12", EndDate: "2024-03-10"}); !errors.Is(err, domainErrors.ErrInvalidDateRange) {
		t.Fatalf("expected invalid range, got %v", err)
	}
}

func TestGetUpdateDelete(t *testing.T) {
	order := completedOrder("ORD-1", "600", testNow)
	order.ID = uuid.New()
	uc, repo := seededQuery(t, order, completedOrder("ORD-2", "1", testNow))
	ctx := context.Background()

	got, err := uc.Get(ctx, order.ID.String())
	if err != nil || got.OrderID != "ORD-1" {
		t.Fatalf("unexpected get: %+v err=%v", got, err)
	}
	if _, err := uc.Get(ctx, "not-an-id"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}
	if _, err := uc.Get(ctx, uuid.NewString()); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for absent id, got %v", err)
	}

	updated, err := uc.UpdateStatus(ctx, order.ID.String(), "refunded")
	if err != nil || updated.Status != model.OrderStatusRefunded {
		t.Fatalf("unexpected update: %+v err=%v", updated, err)
	}
	if _, err := uc.UpdateStatus(ctx, order.ID.String(), "voided"); !errors.Is(err, domainErrors.ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if _, err := uc.UpdateStatus(ctx, "bad", "completed"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := uc.Delete(ctx, order.ID.String()); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if err := uc.Delete(ctx, order.ID.String()); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if err := uc.Delete(ctx, "bad"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}

	n, err := uc.DeleteAll(ctx)
	if err != nil || n != 1 || repo.Len() != 0 {
		t.Fatalf("unexpected delete all: n=%d err=%v left=%d", n, err, repo.Len())
	}
	if n, err := uc.DeleteAll(ctx); err != nil || n != 0 {
		t.Fatalf("expected zero on empty store, got %d err=%v", n, err)
	}
}

func TestQueryPropagatesStoreFailure(t *testing.T) {
	uc, repo := seededQuery(t)
	repo.Err = errors.New("db down")
	ctx := context.Background()

	if _, err := uc.List(ctx, model.ListQuery{}); err == nil {
		t.Fatal("expected list error")
	}
	if err := uc.Delete(ctx, uuid.NewString()); err == nil || errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected store error, got %v", err)
	}
}
