package test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/posledger/internal/domain/errors"
	"github.com/polkiloo/posledger/internal/domain/model"
)

// OrderRepositoryStub keeps orders in memory with the same observable
// semantics as the PostgreSQL store. Err, when set, fails every call.
type OrderRepositoryStub struct {
	Err error

	mu      sync.Mutex
	byID    map[uuid.UUID]*model.Order
	byKey   map[string]uuid.UUID
	inserts int
}

// NewOrderRepositoryStub constructs an empty in-memory store.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{
		byID:  make(map[uuid.UUID]*model.Order),
		byKey: make(map[string]uuid.UUID),
	}
}

// Inserts reports how many records were actually written.
func (s *OrderRepositoryStub) Inserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts
}

// Seed stores orders verbatim, bypassing insert-if-absent.
func (s *OrderRepositoryStub) Seed(orders ...model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range orders {
		o := orders[i]
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
		s.byID[o.ID] = &o
		s.byKey[o.OrderID] = o.ID
	}
}

// Len returns the number of stored orders.
func (s *OrderRepositoryStub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *OrderRepositoryStub) UpsertIfAbsent(ctx context.Context, order *model.Order) (*model.Order, bool, error) {
	if s.Err != nil {
		return nil, false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byKey[order.OrderID]; ok {
		existing := *s.byID[id]
		return &existing, false, nil
	}

	stored := *order
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.TotalAmount = stored.TotalAmount.Round(2)
	stored.Timestamp = stored.Timestamp.Truncate(time.Microsecond)
	now := time.Now().Truncate(time.Microsecond)
	stored.CreatedAt, stored.UpdatedAt = now, now
	s.byID[stored.ID] = &stored
	s.byKey[stored.OrderID] = stored.ID
	s.inserts++

	result := stored
	return &result, true, nil
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.byID[id]; ok {
		result := *o
		return &result, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) GetByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byKey[orderID]; ok {
		result := *s.byID[id]
		return &result, nil
	}
	return nil, domainErrors.ErrNotFound
}

func inRange(t time.Time, r model.TimeRange) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

func (s *OrderRepositoryStub) List(ctx context.Context, filter model.OrderFilter, page model.PageRequest) ([]model.Order, int64, error) {
	if s.Err != nil {
		return nil, 0, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]model.Order, 0)
	for _, o := range s.byID {
		if search != "" &&
			!strings.Contains(strings.ToLower(o.OrderID), search) &&
			!strings.Contains(strings.ToLower(o.Customer.Name), search) {
			continue
		}
		if filter.Range != nil && !inRange(o.Timestamp, *filter.Range) {
			continue
		}
		matched = append(matched, *o)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})

	total := int64(len(matched))
	if page.Offset >= len(matched) {
		return []model.Order{}, total, nil
	}
	end := page.Offset + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[page.Offset:end], total, nil
}

func (s *OrderRepositoryStub) selectForAggregate(filter model.AggregateFilter) []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var selected []model.Order
	for _, o := range s.byID {
		if o.Status == filter.Status && inRange(o.Timestamp, filter.Range) {
			selected = append(selected, *o)
		}
	}
	return selected
}

func (s *OrderRepositoryStub) Totals(ctx context.Context, filter model.AggregateFilter) (model.Totals, error) {
	if s.Err != nil {
		return model.Totals{}, s.Err
	}
	totals := model.Totals{Revenue: decimal.Zero}
	for _, o := range s.selectForAggregate(filter) {
		totals.Revenue = totals.Revenue.Add(o.TotalAmount)
		totals.Orders++
	}
	return totals, nil
}

func (s *OrderRepositoryStub) Aggregate(ctx context.Context, filter model.AggregateFilter, granularity model.Granularity) ([]model.Bucket, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	loc := filter.Location
	if loc == nil {
		loc = time.UTC
	}

	index := make(map[string]int)
	buckets := make([]model.Bucket, 0)
	for _, o := range s.selectForAggregate(filter) {
		key := o.Timestamp.In(loc).Format(granularity.Layout())
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, model.Bucket{Key: key, Sales: decimal.Zero})
		}
		buckets[i].Sales = buckets[i].Sales.Add(o.TotalAmount)
		buckets[i].Orders++
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Key < buckets[j].Key })
	return buckets, nil
}

func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	result := *o
	return &result, nil
}

func (s *OrderRepositoryStub) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return false, nil
	}
	delete(s.byKey, o.OrderID)
	delete(s.byID, id)
	return true, nil
}

func (s *OrderRepositoryStub) DeleteAll(ctx context.Context) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.byID))
	s.byID = make(map[uuid.UUID]*model.Order)
	s.byKey = make(map[string]uuid.UUID)
	return n, nil
}

// ReplayCacheStub is a map-backed replay cache.
type ReplayCacheStub struct {
	LookupErr   error
	RememberErr error

	mu      sync.Mutex
	entries map[string]uuid.UUID
}

func (c *ReplayCacheStub) Lookup(ctx context.Context, orderID string) (uuid.UUID, bool, error) {
	if c.LookupErr != nil {
		return uuid.Nil, false, c.LookupErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.entries[orderID]
	return id, ok, nil
}

func (c *ReplayCacheStub) Remember(ctx context.Context, orderID string, id uuid.UUID) error {
	if c.RememberErr != nil {
		return c.RememberErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]uuid.UUID)
	}
	c.entries[orderID] = id
	return nil
}

// CatalogStub resolves product names from a fixed map.
type CatalogStub struct {
	Names map[string]string
	Err   error
}

func (c CatalogStub) ProductName(ctx context.Context, productID string) (string, error) {
	if c.Err != nil {
		return "", c.Err
	}
	if name, ok := c.Names[productID]; ok {
		return name, nil
	}
	return "", domainErrors.ErrNotFound
}

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// SequenceIDs hands out order ids with a fixed prefix and increasing suffix.
type SequenceIDs struct {
	Prefix string

	mu   sync.Mutex
	next int
}

func (g *SequenceIDs) NewOrderID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s%03d", g.Prefix, g.next)
}
