package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rl1809/shopcore/internal/core/domain"
)

// MySQLOrderStore keeps orders, their lines and the order outbox.
type MySQLOrderStore struct {
	db *sql.DB
}

func NewMySQLOrderStore(db *sql.DB) *MySQLOrderStore {
	return &MySQLOrderStore{db: db}
}

func (m *MySQLOrderStore) CreateOrder(ctx context.Context, order domain.Order, outbox domain.OutboxRecord) error {
	payload, err := json.Marshal(outbox.Event)
	if err != nil {
		return storeError("encode outbox payload", err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError("begin tx", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, total, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, order.Total, order.Status, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return storeError("insert order", err)
	}

	// Lines are written as a whole set together with their order.
	for i, line := range order.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, line_no, product_id, product_name, quantity, unit_price)
			VALUES (?, ?, ?, ?, ?, ?)`,
			order.ID, i, line.ProductID, line.ProductName, line.Quantity, line.UnitPrice,
		)
		if err != nil {
			return storeError("insert order item", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_outbox (id, payload, created_at)
		VALUES (?, ?, ?)`,
		outbox.ID, payload, outbox.CreatedAt,
	)
	if err != nil {
		return storeError("insert outbox", err)
	}

	if err := tx.Commit(); err != nil {
		return storeError("commit", err)
	}
	return nil
}

func (m *MySQLOrderStore) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	var o domain.Order
	err := m.db.QueryRowContext(ctx, `
		SELECT id, user_id, total, status, created_at, updated_at
		FROM orders WHERE id = ?`, orderID,
	).Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeError("query order", err)
	}

	lines, err := m.queryLines(ctx, `
		SELECT order_id, product_id, product_name, quantity, unit_price
		FROM order_items WHERE order_id = ? ORDER BY line_no`, orderID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines[orderID]
	return &o, nil
}

func (m *MySQLOrderStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, user_id, total, status, created_at, updated_at
		FROM orders ORDER BY created_at, id`)
	if err != nil {
		return nil, storeError("query orders", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, storeError("scan order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate orders", err)
	}

	lines, err := m.queryLines(ctx, `
		SELECT order_id, product_id, product_name, quantity, unit_price
		FROM order_items ORDER BY order_id, line_no`)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}
	return orders, nil
}

func (m *MySQLOrderStore) queryLines(ctx context.Context, query string, args ...any) (map[string][]domain.OrderLine, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("query order items", err)
	}
	defer rows.Close()

	byOrder := make(map[string][]domain.OrderLine)
	for rows.Next() {
		var orderID string
		var l domain.OrderLine
		if err := rows.Scan(&orderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, storeError("scan order item", err)
		}
		byOrder[orderID] = append(byOrder[orderID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate order items", err)
	}
	return byOrder, nil
}

func (m *MySQLOrderStore) UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, at time.Time) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE orders
		SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		to, at, orderID, from,
	)
	if err != nil {
		return storeError("update order status", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return missingOr(ctx, m.db, `SELECT COUNT(*) FROM orders WHERE id = ?`, orderID)
	}
	return nil
}

func (m *MySQLOrderStore) PendingOutbox(ctx context.Context, olderThan time.Time, limit int) ([]domain.OutboxRecord, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, payload, created_at
		FROM order_outbox
		WHERE published_at IS NULL AND created_at < ?
		ORDER BY created_at
		LIMIT ?`, olderThan, limit)
	if err != nil {
		return nil, storeError("query outbox", err)
	}
	defer rows.Close()

	var records []domain.OutboxRecord
	for rows.Next() {
		var rec domain.OutboxRecord
		var payload []byte
		if err := rows.Scan(&rec.ID, &payload, &rec.CreatedAt); err != nil {
			return nil, storeError("scan outbox", err)
		}
		if err := json.Unmarshal(payload, &rec.Event); err != nil {
			return nil, storeError("decode outbox "+rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate outbox", err)
	}
	return records, nil
}

func (m *MySQLOrderStore) MarkPublished(ctx context.Context, id string, at time.Time) error {
	_, err := m.db.ExecContext(ctx, `
		UPDATE order_outbox SET published_at = ?
		WHERE id = ? AND published_at IS NULL`, at, id)
	if err != nil {
		return storeError("mark outbox published", err)
	}
	return nil
}

// missingOr tells a vanished row (ErrNotFound) from a lost race (ErrOptimisticLock)
// after a conditional write touched no rows.
func missingOr(ctx context.Context, db *sql.DB, countQuery string, id string) error {
	var count int
	if err := db.QueryRowContext(ctx, countQuery, id).Scan(&count); err != nil {
		return storeError("check existence", err)
	}
	if count == 0 {
		return domain.ErrNotFound
	}
	return ErrOptimisticLock
}
