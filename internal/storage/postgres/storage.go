package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/studorg/marketplace/internal/domain/errors"
	"github.com/studorg/marketplace/internal/domain/model"
	"github.com/studorg/marketplace/internal/domain/repository"
	"github.com/studorg/marketplace/internal/outbox"
)

// Pool is the subset of pgxpool.Pool the storage uses, kept as an
// interface so a mock pool can stand in for tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type archiveRepository struct {
	storage *Storage
}

type stockLedger struct {
	storage *Storage
}

type balanceLedger struct {
	storage *Storage
}

type productCatalog struct {
	storage *Storage
}

type outboxRepository struct {
	storage *Storage
}

// newPgxPool is swapped out in tests.
var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (Pool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
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

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories and ledgers.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Archive() repository.ArchiveRepository {
	return &archiveRepository{storage: s}
}

func (s *Storage) Stock() repository.StockLedger {
	return &stockLedger{storage: s}
}

func (s *Storage) Balances() repository.BalanceLedger {
	return &balanceLedger{storage: s}
}

func (s *Storage) Catalog() repository.ProductCatalog {
	return &productCatalog{storage: s}
}

func (s *Storage) Outbox() outbox.Repository {
	return &outboxRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            price NUMERIC(12,2) NOT NULL,
            available INTEGER NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            buyer_id BIGINT NOT NULL,
            product_id BIGINT,
            product_name TEXT NOT NULL,
            product_price NUMERIC(12,2) NOT NULL,
            quantity INTEGER NOT NULL,
            status TEXT NOT NULL,
            payment_type TEXT NOT NULL,
            instructions TEXT NOT NULL DEFAULT '',
            assigned_rep BIGINT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            paid_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS archived_orders (
            id BIGINT PRIMARY KEY,
            buyer_id BIGINT NOT NULL,
            product_id BIGINT,
            product_name TEXT NOT NULL,
            product_price NUMERIC(12,2) NOT NULL,
            quantity INTEGER NOT NULL,
            status TEXT NOT NULL,
            payment_type TEXT NOT NULL,
            instructions TEXT NOT NULL DEFAULT '',
            assigned_rep BIGINT,
            created_at TIMESTAMPTZ NOT NULL,
            paid_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS balances (
            user_id BIGINT PRIMARY KEY,
            collected NUMERIC(14,2) NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS outbox (
            id UUID PRIMARY KEY,
            topic TEXT NOT NULL,
            payload JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            published_at TIMESTAMPTZ
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_rep ON orders(assigned_rep) WHERE assigned_rep IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox(created_at) WHERE published_at IS NULL`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, buyer_id, product_id, product_name, product_price, quantity, status, payment_type, instructions, assigned_rep, created_at, paid_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(&o.ID, &o.BuyerID, &o.ProductID, &o.ProductName, &o.ProductPrice, &o.Quantity,
		&o.Status, &o.PaymentType, &o.Instructions, &o.AssignedRep, &o.CreatedAt, &o.PaidAt)
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- OrderRepository implementation ---

// Create runs the full reservation algorithm in one transaction: resolve
// the catalog product, conditionally decrement its stock, snapshot name
// and price onto the order, insert it as PENDING, and enqueue the created
// event.
func (r *orderRepository) Create(ctx context.Context, input model.NewOrder) (*model.Order, error) {
	order := model.Order{
		BuyerID:      input.BuyerID,
		ProductID:    input.ProductID,
		ProductName:  input.ProductName,
		ProductPrice: input.ProductPrice,
		Quantity:     input.Quantity,
		Status:       model.OrderStatusPending,
		PaymentType:  input.PaymentType,
		Instructions: input.Instructions,
	}

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if input.ProductID != nil {
			var product model.Product
			err := tx.QueryRow(ctx, `SELECT id, name, price, available FROM products WHERE id=$1`, *input.ProductID).
				Scan(&product.ID, &product.Name, &product.Price, &product.Available)
			switch {
			case errors.Is(err, pgx.ErrNoRows):
				// Deleted or unknown product is allowed only as a custom
				// order with an explicit snapshot.
				if !input.HasSnapshot() {
					return fmt.Errorf("%w: product %d does not exist and no name/price supplied", domainErrors.ErrValidation, *input.ProductID)
				}
			case err != nil:
				return err
			default:
				if !product.Unlimited() {
					if _, err := reserveStockTx(ctx, tx, product.ID, input.Quantity); err != nil {
						return err
					}
				}
				order.ProductName = product.Name
				order.ProductPrice = product.Price
			}
		}

		const insertQuery = `INSERT INTO orders (buyer_id, product_id, product_name, product_price, quantity, status, payment_type, instructions)
                             VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                             RETURNING id, created_at`
		if err := tx.QueryRow(ctx, insertQuery,
			order.BuyerID, order.ProductID, order.ProductName, order.ProductPrice,
			order.Quantity, order.Status, order.PaymentType, order.Instructions,
		).Scan(&order.ID, &order.CreatedAt); err != nil {
			return err
		}

		return insertOutboxTx(ctx, tx, outbox.TopicOrderCreated, &order)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Transition locks the order row, validates the state machine, claims the
// representative on first touch, stamps PaidAt once, credits the collected
// balance on delivery, and enqueues the matching event. All in one
// transaction.
func (r *orderRepository) Transition(ctx context.Context, orderID int64, next model.OrderStatus, actor int64) (*model.Order, error) {
	var order model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, orderID)
		if err := scanOrder(row, &order); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrOrderNotFound
			}
			return err
		}

		if err := order.ValidateTransition(next, actor); err != nil {
			return err
		}

		order.ApplyTransition(next, actor, time.Now())

		const updateQuery = `UPDATE orders SET status=$1, assigned_rep=$2, paid_at=$3 WHERE id=$4`
		if _, err := tx.Exec(ctx, updateQuery, order.Status, order.AssignedRep, order.PaidAt, order.ID); err != nil {
			return err
		}

		switch next {
		case model.OrderStatusDelivered:
			if _, err := addCollectedTx(ctx, tx, *order.AssignedRep, order.TotalPrice()); err != nil {
				return err
			}
			return insertOutboxTx(ctx, tx, outbox.TopicOrderDelivered, &order)
		case model.OrderStatusCancelled:
			return insertOutboxTx(ctx, tx, outbox.TopicOrderCancelled, &order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	var order model.Order
	row := r.storage.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, orderID)
	if err := scanOrder(row, &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID int64, page model.Page) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE buyer_id=$1
                   ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.storage.pool.Query(ctx, query, buyerID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) ListAll(ctx context.Context, page model.Page) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders
                   ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.storage.pool.Query(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) ListByAssignedRep(ctx context.Context, repID int64, page model.Page) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE assigned_rep=$1
                   ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.storage.pool.Query(ctx, query, repID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) Stats(ctx context.Context) (*model.OrderStats, error) {
	const query = `SELECT COUNT(*), COALESCE(SUM(quantity), 0), COALESCE(SUM(product_price * quantity), 0)
                   FROM orders WHERE status=$1`
	var stats model.OrderStats
	err := r.storage.pool.QueryRow(ctx, query, model.OrderStatusDelivered).
		Scan(&stats.DeliveredCount, &stats.DeliveredQuantity, &stats.DeliveredRevenue)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *orderRepository) SelectArchivable(ctx context.Context, cutoff time.Time, limit int) ([]int64, error) {
	const query = `SELECT id FROM orders
                   WHERE (status=$1 AND paid_at < $2) OR (status=$3 AND created_at < $2)
                   ORDER BY id LIMIT $4`
	rows, err := r.storage.pool.Query(ctx, query, model.OrderStatusDelivered, cutoff, model.OrderStatusCancelled, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// --- ArchiveRepository implementation ---

// Archive copies the order verbatim into archived_orders and deletes the
// active row in one transaction. An id that is already gone is a no-op.
func (r *archiveRepository) Archive(ctx context.Context, orderID int64) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const copyQuery = `INSERT INTO archived_orders (` + orderColumns + `)
                           SELECT ` + orderColumns + ` FROM orders
                           WHERE id=$1 AND status IN ($2, $3)
                           ON CONFLICT (id) DO NOTHING`
		if _, err := tx.Exec(ctx, copyQuery, orderID, model.OrderStatusDelivered, model.OrderStatusCancelled); err != nil {
			return err
		}

		const deleteQuery = `DELETE FROM orders WHERE id=$1 AND status IN ($2, $3)`
		if _, err := tx.Exec(ctx, deleteQuery, orderID, model.OrderStatusDelivered, model.OrderStatusCancelled); err != nil {
			return err
		}
		return nil
	})
}

func (r *archiveRepository) List(ctx context.Context, page model.Page) ([]model.ArchivedOrder, error) {
	const query = `SELECT ` + orderColumns + ` FROM archived_orders
                   ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.storage.pool.Query(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	result := make([]model.ArchivedOrder, 0, len(orders))
	for _, o := range orders {
		result = append(result, o.Archived())
	}
	return result, nil
}

// --- StockLedger implementation ---

// reserveStockTx performs the conditional decrement: a single guarded
// UPDATE, never read-then-write, so concurrent reservations cannot
// oversell. Callers skip it for unlimited listings.
func reserveStockTx(ctx context.Context, tx pgx.Tx, productID int64, qty int32) (int32, error) {
	const query = `UPDATE products SET available = available - $2
                   WHERE id=$1 AND available <> -1 AND available >= $2
                   RETURNING available`
	var remaining int32
	if err := tx.QueryRow(ctx, query, productID, qty).Scan(&remaining); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrInsufficientStock
		}
		return 0, err
	}
	return remaining, nil
}

func (l *stockLedger) TryReserve(ctx context.Context, productID int64, qty int32) (int32, error) {
	available, err := l.GetAvailable(ctx, productID)
	if err != nil {
		return 0, err
	}
	if available == model.UnlimitedStock {
		return model.UnlimitedStock, nil
	}

	var remaining int32
	err = l.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		remaining, err = reserveStockTx(ctx, tx, productID, qty)
		return err
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

func (l *stockLedger) GetAvailable(ctx context.Context, productID int64) (int32, error) {
	var available int32
	err := l.storage.pool.QueryRow(ctx, `SELECT available FROM products WHERE id=$1`, productID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrNotFound
		}
		return 0, err
	}
	return available, nil
}

func (l *stockLedger) IsUnlimited(ctx context.Context, productID int64) (bool, error) {
	available, err := l.GetAvailable(ctx, productID)
	if err != nil {
		return false, err
	}
	return available == model.UnlimitedStock, nil
}

func (l *stockLedger) PurgeIfDepleted(ctx context.Context, productID int64) error {
	_, err := l.storage.pool.Exec(ctx, `DELETE FROM products WHERE id=$1 AND available = 0`, productID)
	return err
}

// --- BalanceLedger implementation ---

func addCollectedTx(ctx context.Context, tx pgx.Tx, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	const query = `INSERT INTO balances (user_id, collected)
                   VALUES ($1, $2)
                   ON CONFLICT (user_id) DO UPDATE SET collected = balances.collected + EXCLUDED.collected
                   RETURNING collected`
	var collected decimal.Decimal
	if err := tx.QueryRow(ctx, query, userID, amount).Scan(&collected); err != nil {
		return decimal.Decimal{}, err
	}
	return collected, nil
}

func (l *balanceLedger) IncrementBalance(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var collected decimal.Decimal
	err := l.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		collected, err = addCollectedTx(ctx, tx, userID, amount)
		return err
	})
	if err != nil {
		return decimal.Decimal{}, err
	}
	return collected, nil
}

func (l *balanceLedger) Collected(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var collected decimal.Decimal
	err := l.storage.pool.QueryRow(ctx, `SELECT collected FROM balances WHERE user_id=$1`, userID).Scan(&collected)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Decimal{}, err
	}
	return collected, nil
}

// --- ProductCatalog implementation ---

func (c *productCatalog) Resolve(ctx context.Context, productID int64) (*model.Product, error) {
	var product model.Product
	err := c.storage.pool.QueryRow(ctx, `SELECT id, name, price, available FROM products WHERE id=$1`, productID).
		Scan(&product.ID, &product.Name, &product.Price, &product.Available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// --- outbox.Repository implementation ---

func insertOutboxTx(ctx context.Context, tx pgx.Tx, topic string, order *model.Order) error {
	event, err := outbox.NewOrderEvent(topic, order)
	if err != nil {
		return err
	}
	const query = `INSERT INTO outbox (id, topic, payload, created_at) VALUES ($1, $2, $3, $4)`
	_, err = tx.Exec(ctx, query, event.ID, event.Topic, event.Payload, event.CreatedAt)
	return err
}

func (r *outboxRepository) Pending(ctx context.Context, limit int) ([]outbox.Event, error) {
	const query = `SELECT id, topic, payload, created_at FROM outbox
                   WHERE published_at IS NULL ORDER BY created_at LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []outbox.Event
	for rows.Next() {
		var e outbox.Event
		if err := rows.Scan(&e.ID, &e.Topic, &e.Payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *outboxRepository) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.storage.pool.Exec(ctx, `UPDATE outbox SET published_at=NOW() WHERE id = ANY($1)`, ids)
	return err
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

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
