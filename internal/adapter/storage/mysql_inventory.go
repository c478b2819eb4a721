package storage

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/rl1809/shopcore/internal/core/domain"
)

type MySQLInventoryStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewMySQLInventoryStore(db *sql.DB) *MySQLInventoryStore {
	return &MySQLInventoryStore{db: db, now: time.Now}
}

func (m *MySQLInventoryStore) UpsertInventory(ctx context.Context, productID string, stock int) (*domain.Inventory, error) {
	now := m.now().UTC()
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO inventory (product_id, stock, version, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?)
		ON DUPLICATE KEY UPDATE stock = VALUES(stock), version = version + 1, updated_at = VALUES(updated_at)`,
		productID, stock, now, now,
	)
	if err != nil {
		return nil, storeError("upsert inventory", err)
	}
	return m.GetInventory(ctx, productID)
}

func (m *MySQLInventoryStore) GetInventory(ctx context.Context, productID string) (*domain.Inventory, error) {
	var inv domain.Inventory
	err := m.db.QueryRowContext(ctx, `
		SELECT product_id, stock, version, created_at, updated_at
		FROM inventory WHERE product_id = ?`, productID,
	).Scan(&inv.ProductID, &inv.Stock, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeError("query inventory", err)
	}
	return &inv, nil
}

func (m *MySQLInventoryStore) SetStock(ctx context.Context, productID string, stock, expectedVersion int) (*domain.Inventory, error) {
	query := `
		UPDATE inventory
		SET stock = ?, version = version + 1, updated_at = ?
		WHERE product_id = ?`
	args := []any{stock, m.now().UTC(), productID}
	if expectedVersion >= 0 {
		query += ` AND version = ?`
		args = append(args, expectedVersion)
	}

	result, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("update inventory", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		if expectedVersion < 0 {
			return nil, domain.ErrNotFound
		}
		return nil, missingOr(ctx, m.db, `SELECT COUNT(*) FROM inventory WHERE product_id = ?`, productID)
	}
	return m.GetInventory(ctx, productID)
}

func (m *MySQLInventoryStore) DeleteInventory(ctx context.Context, productID string, expectedVersion int) error {
	query := `DELETE FROM inventory WHERE product_id = ?`
	args := []any{productID}
	if expectedVersion >= 0 {
		query += ` AND version = ?`
		args = append(args, expectedVersion)
	}

	result, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		return storeError("delete inventory", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		if expectedVersion < 0 {
			return domain.ErrNotFound
		}
		return missingOr(ctx, m.db, `SELECT COUNT(*) FROM inventory WHERE product_id = ?`, productID)
	}
	return nil
}

func (m *MySQLInventoryStore) ListInventory(ctx context.Context) ([]domain.Inventory, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT product_id, stock, version, created_at, updated_at
		FROM inventory ORDER BY product_id`)
	if err != nil {
		return nil, storeError("query inventory", err)
	}
	defer rows.Close()

	items := []domain.Inventory{}
	for rows.Next() {
		var inv domain.Inventory
		if err := rows.Scan(&inv.ProductID, &inv.Stock, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, storeError("scan inventory", err)
		}
		items = append(items, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate inventory", err)
	}
	return items, nil
}

// ApplyOrder records the order in the inbox and decrements stock in the same
// transaction, so a redelivered event finds its inbox row and changes nothing.
func (m *MySQLInventoryStore) ApplyOrder(ctx context.Context, event domain.OrderPlacedEvent) (bool, []domain.StockShortfall, error) {
	now := m.now().UTC()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return false, nil, storeError("begin tx", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT IGNORE INTO inventory_inbox (order_id, applied_at) VALUES (?, ?)`,
		event.OrderID, now,
	)
	if err != nil {
		return false, nil, storeError("insert inbox", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return false, nil, nil
	}

	// Lock rows in a stable order so concurrent orders cannot deadlock.
	wanted := make(map[string]int)
	for _, l := range event.Lines {
		wanted[l.ProductID] += l.Quantity
	}
	productIDs := make([]string, 0, len(wanted))
	for id := range wanted {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	var shortfalls []domain.StockShortfall
	for _, productID := range productIDs {
		qty := wanted[productID]

		var stock int
		err := tx.QueryRowContext(ctx, `
			SELECT stock FROM inventory WHERE product_id = ? FOR UPDATE`, productID,
		).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return false, nil, storeError("lock inventory "+productID, err)
		}

		remaining := stock - qty
		if remaining < 0 {
			shortfalls = append(shortfalls, domain.StockShortfall{ProductID: productID, Requested: qty, Available: stock})
			remaining = 0
		}

		if remaining == 0 {
			_, err = tx.ExecContext(ctx, `DELETE FROM inventory WHERE product_id = ?`, productID)
		} else {
			_, err = tx.ExecContext(ctx, `
				UPDATE inventory
				SET stock = ?, version = version + 1, updated_at = ?
				WHERE product_id = ?`,
				remaining, now, productID,
			)
		}
		if err != nil {
			return false, nil, storeError("decrement inventory "+productID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, nil, storeError("commit", err)
	}
	return true, shortfalls, nil
}
