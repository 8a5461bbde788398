package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pizza-store/internal/domain"
)

type OrderRepository interface {
	// Create persists the order header and all lines in one transaction
	// and returns the allocated order id.
	Create(ctx context.Context, login string, storeID int, total decimal.Decimal,
		ts time.Time, lines []domain.ResolvedLine) (int, error)
	GetByID(ctx context.Context, orderID int) (domain.Order, error)
	GetLines(ctx context.Context, orderID int) ([]domain.OrderLine, error)
	UpdateStatus(ctx context.Context, orderID int, status domain.OrderStatus) error
	ListByLogin(ctx context.Context, login string, limit int) ([]domain.OrderSummary, error)
	ListAll(ctx context.Context) ([]domain.OrderSummary, error)
}

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) OrderRepository { return &orderRepository{db: db} }

// createAttempts bounds the retry loop around order-id allocation.
// Collisions only happen when two sessions check out at the same
// instant, so a handful of retries is plenty.
const createAttempts = 5

func (r *orderRepository) Create(ctx context.Context, login string, storeID int,
	total decimal.Decimal, ts time.Time, lines []domain.ResolvedLine) (int, error) {

	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		id, err := r.createTx(ctx, login, storeID, total, ts, lines)
		if err == nil {
			return id, nil
		}
		// Two concurrent checkouts can both read the same MAX(order_id);
		// the primary key rejects the loser, which retries with a fresh
		// allocation in a new transaction.
		if isUniqueViolation(err) {
			lastErr = err
			continue
		}
		return 0, err
	}
	return 0, fmt.Errorf("create order: id allocation kept colliding: %w: %w", domain.ErrStoreUnavailable, lastErr)
}

func (r *orderRepository) createTx(ctx context.Context, login string, storeID int,
	total decimal.Decimal, ts time.Time, lines []domain.ResolvedLine) (int, error) {

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, wrap("begin checkout", err)
	}
	defer tx.Rollback(ctx)

	// Allocation and insert are one statement: max(order_id)+1 is read
	// under the same snapshot the row is written in, and the primary key
	// backstops races. An empty table starts the sequence at 0.
	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO food_orders (order_id, login, store_id, total_price, order_timestamp, order_status)
		SELECT COALESCE(MAX(order_id) + 1, 0), $1, $2, $3, $4, $5 FROM food_orders
		RETURNING order_id
	`, login, storeID, total.StringFixed(2), ts, string(domain.StatusPlaced)).Scan(&orderID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, err
		}
		return 0, wrap("insert order", err)
	}

	for _, line := range lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO items_in_order (order_id, item_name, quantity)
			VALUES ($1, $2, $3)
		`, orderID, line.ItemName, line.Quantity)
		if err != nil {
			return 0, wrap(fmt.Sprintf("insert order line %q", line.ItemName), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return 0, err
		}
		return 0, wrap("commit checkout", err)
	}
	return orderID, nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID int) (domain.Order, error) {
	var o domain.Order
	var total, status string
	err := r.db.QueryRow(ctx, `
		SELECT order_id, login, store_id, total_price::text, order_timestamp, order_status
		FROM food_orders WHERE order_id = $1
	`, orderID).Scan(&o.ID, &o.Login, &o.StoreID, &total, &o.Timestamp, &status)
	if err != nil {
		return domain.Order{}, wrap("get order", err)
	}
	t, err := decimal.NewFromString(total)
	if err != nil {
		return domain.Order{}, fmt.Errorf("parse total %q: %w", total, err)
	}
	o.Total = t
	o.Status = domain.OrderStatus(status)
	return o, nil
}

func (r *orderRepository) GetLines(ctx context.Context, orderID int) ([]domain.OrderLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT order_id, item_name, quantity
		FROM items_in_order WHERE order_id = $1 ORDER BY item_name
	`, orderID)
	if err != nil {
		return nil, wrap("get order lines", err)
	}
	defer rows.Close()

	var out []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.OrderID, &l.ItemName, &l.Quantity); err != nil {
			return nil, wrap("scan order line", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("get order lines", err)
	}
	return out, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int, status domain.OrderStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE food_orders SET order_status = $2 WHERE order_id = $1
	`, orderID, string(status))
	if err != nil {
		return wrap("update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order status: order %d: %w", orderID, domain.ErrNotFound)
	}
	return nil
}

func (r *orderRepository) ListByLogin(ctx context.Context, login string, limit int) ([]domain.OrderSummary, error) {
	sql := `
		SELECT order_id, login, store_id, total_price::text, order_timestamp, order_status
		FROM food_orders WHERE login = $1 ORDER BY order_timestamp DESC`
	args := []any{login}
	if limit > 0 {
		sql += ` LIMIT $2`
		args = append(args, limit)
	}
	return r.listOrders(ctx, sql, args...)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]domain.OrderSummary, error) {
	return r.listOrders(ctx, `
		SELECT order_id, login, store_id, total_price::text, order_timestamp, order_status
		FROM food_orders ORDER BY order_timestamp DESC`)
}

func (r *orderRepository) listOrders(ctx context.Context, sql string, args ...any) ([]domain.OrderSummary, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrap("list orders", err)
	}
	defer rows.Close()

	var out []domain.OrderSummary
	for rows.Next() {
		var s domain.OrderSummary
		var total, status string
		if err := rows.Scan(&s.OrderID, &s.Login, &s.StoreID, &total, &s.Timestamp, &status); err != nil {
			return nil, wrap("scan order", err)
		}
		t, err := decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("parse total %q: %w", total, err)
		}
		s.Total = t
		s.Status = domain.OrderStatus(status)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list orders", err)
	}
	return out, nil
}
