package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/posledger/internal/domain/errors"
	"github.com/polkiloo/posledger/internal/domain/model"
	"github.com/polkiloo/posledger/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("order store ready")
	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Orders returns the order repository backed by this storage.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id UUID PRIMARY KEY,
            order_id TEXT UNIQUE NOT NULL,
            items JSONB NOT NULL,
            total_amount NUMERIC(14,2) NOT NULL CHECK (total_amount >= 0),
            status TEXT NOT NULL DEFAULT 'completed',
            placed_at TIMESTAMPTZ NOT NULL,
            customer_name TEXT NOT NULL,
            customer_phone TEXT NOT NULL DEFAULT '',
            customer_guests INTEGER NOT NULL DEFAULT 0,
            table_number TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_placed_at ON orders(placed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status_placed_at ON orders(status, placed_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id::TEXT, order_id, items, total_amount::TEXT, status, placed_at,
                      customer_name, customer_phone, customer_guests,
                      table_number, payment_method, created_at, updated_at`

type itemRecord struct {
	ProductID string          `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	Variant   string          `json:"variant,omitempty"`
}

func encodeItems(items []model.Item) ([]byte, error) {
	records := make([]itemRecord, 0, len(items))
	for _, it := range items {
		records = append(records, itemRecord{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice,
			Variant:   it.Variant,
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return data, nil
}

func decodeItems(data []byte) ([]model.Item, error) {
	var records []itemRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	items := make([]model.Item, 0, len(records))
	for _, r := range records {
		items = append(items, model.Item{
			ProductID: r.ProductID,
			Name:      r.Name,
			Quantity:  r.Quantity,
			UnitPrice: r.Price,
			Variant:   r.Variant,
		})
	}
	return items, nil
}

// UUIDs and NUMERIC values are read through their text form.
func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o     model.Order
		id    string
		total string
		items []byte
	)
	err := row.Scan(&id, &o.OrderID, &items, &total, &o.Status, &o.Timestamp,
		&o.Customer.Name, &o.Customer.Phone, &o.Customer.Guests,
		&o.Table, &o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if o.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("scan id: %w", err)
	}
	if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("scan total: %w", err)
	}
	if o.Items, err = decodeItems(items); err != nil {
		return nil, err
	}
	return &o, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrNotFound
	}
	return err
}

// --- OrderRepository implementation ---

func (r *orderRepository) UpsertIfAbsent(ctx context.Context, order *model.Order) (*model.Order, bool, error) {
	items, err := encodeItems(order.Items)
	if err != nil {
		return nil, false, err
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	const insertQuery = `INSERT INTO orders (id, order_id, items, total_amount, status, placed_at,
                             customer_name, customer_phone, customer_guests, table_number, payment_method)
                         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
                         ON CONFLICT (order_id) DO NOTHING
                         RETURNING ` + orderColumns
	const selectQuery = `SELECT ` + orderColumns + ` FROM orders WHERE order_id=$1`

	var (
		result   *model.Order
		inserted bool
	)
	err = r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		// The response is the stored row, so column rounding shows up on the first call too.
		created, err := scanOrder(tx.QueryRow(ctx, insertQuery,
			order.ID.String(), order.OrderID, items, order.TotalAmount.String(), order.Status, order.Timestamp,
			order.Customer.Name, order.Customer.Phone, order.Customer.Guests, order.Table, order.PaymentMethod,
		))
		if err == nil {
			result, inserted = created, true
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		existing, err := scanOrder(tx.QueryRow(ctx, selectQuery, order.OrderID))
		if err != nil {
			return notFound(err)
		}
		result = existing
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, inserted, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id.String()))
	if err != nil {
		return nil, notFound(err)
	}
	return order, nil
}

func (r *orderRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE order_id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, notFound(err)
	}
	return order, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func buildOrderFilter(filter model.OrderFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
		clauses = append(clauses, fmt.Sprintf("(order_id ILIKE $%d OR customer_name ILIKE $%d)", len(args), len(args)))
	}
	if filter.Range != nil {
		args = append(args, filter.Range.From, filter.Range.To)
		clauses = append(clauses, fmt.Sprintf("placed_at BETWEEN $%d AND $%d", len(args)-1, len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter, page model.PageRequest) ([]model.Order, int64, error) {
	where, args := buildOrderFilter(filter)

	var total int64
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where +
		fmt.Sprintf(` ORDER BY placed_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.storage.pool.Query(ctx, query, append(args, page.Limit, page.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := make([]model.Order, 0, page.Limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func zoneName(loc *time.Location) string {
	if loc == nil {
		return "UTC"
	}
	return loc.String()
}

func (r *orderRepository) Totals(ctx context.Context, filter model.AggregateFilter) (model.Totals, error) {
	const query = `SELECT COALESCE(SUM(total_amount), 0)::TEXT, COUNT(*)
                   FROM orders
                   WHERE status=$1 AND placed_at BETWEEN $2 AND $3`
	var (
		totals  model.Totals
		revenue string
	)
	err := r.storage.pool.QueryRow(ctx, query, filter.Status, filter.Range.From, filter.Range.To).Scan(&revenue, &totals.Orders)
	if err != nil {
		return model.Totals{}, err
	}
	if totals.Revenue, err = decimal.NewFromString(revenue); err != nil {
		return model.Totals{}, fmt.Errorf("scan revenue: %w", err)
	}
	return totals, nil
}

func bucketPattern(g model.Granularity) string {
	if g == model.GranularityMonth {
		return "YYYY-MM"
	}
	return "YYYY-MM-DD"
}

func (r *orderRepository) Aggregate(ctx context.Context, filter model.AggregateFilter, granularity model.Granularity) ([]model.Bucket, error) {
	const query = `SELECT to_char(placed_at AT TIME ZONE $1, $2) AS bucket,
                          SUM(total_amount)::TEXT, COUNT(*)
                   FROM orders
                   WHERE status=$3 AND placed_at BETWEEN $4 AND $5
                   GROUP BY bucket
                   ORDER BY bucket`
	rows, err := r.storage.pool.Query(ctx, query,
		zoneName(filter.Location), bucketPattern(granularity), filter.Status, filter.Range.From, filter.Range.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := make([]model.Bucket, 0)
	for rows.Next() {
		var (
			b     model.Bucket
			sales string
		)
		if err := rows.Scan(&b.Key, &sales, &b.Orders); err != nil {
			return nil, err
		}
		if b.Sales, err = decimal.NewFromString(sales); err != nil {
			return nil, fmt.Errorf("scan sales: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return buckets, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	const query = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, status, id.String()))
	if err != nil {
		return nil, notFound(err)
	}
	return order, nil
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id.String())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *orderRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM orders`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
