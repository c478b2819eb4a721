package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rl1809/shopcore/internal/core/domain"
)

type MySQLAccountStore struct {
	db *sql.DB
}

func NewMySQLAccountStore(db *sql.DB) *MySQLAccountStore {
	return &MySQLAccountStore{db: db}
}

func (m *MySQLAccountStore) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, display_name, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.PasswordHash, a.DisplayName, a.Role, a.CreatedAt,
	)
	if isDuplicateEntry(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return storeError("insert account", err)
	}
	return nil
}

func (m *MySQLAccountStore) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return m.getAccount(ctx, `
		SELECT id, email, password_hash, display_name, role, created_at
		FROM accounts WHERE email = ?`, email)
}

func (m *MySQLAccountStore) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return m.getAccount(ctx, `
		SELECT id, email, password_hash, display_name, role, created_at
		FROM accounts WHERE id = ?`, id)
}

func (m *MySQLAccountStore) getAccount(ctx context.Context, query string, arg string) (*domain.Account, error) {
	var a domain.Account
	err := m.db.QueryRowContext(ctx, query, arg).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.DisplayName, &a.Role, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeError("query account", err)
	}
	return &a, nil
}

// MySQLProductStore backs the Product Lookup server.
type MySQLProductStore struct {
	db *sql.DB
}

func NewMySQLProductStore(db *sql.DB) *MySQLProductStore {
	return &MySQLProductStore{db: db}
}

func (m *MySQLProductStore) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var p domain.Product
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, price FROM products WHERE id = ?`, productID,
	).Scan(&p.ProductID, &p.Name, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeError("query product", err)
	}
	return &p, nil
}

// UpsertProduct is used to seed the catalog.
func (m *MySQLProductStore) UpsertProduct(ctx context.Context, p domain.Product) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name), price = VALUES(price)`,
		p.ProductID, p.Name, p.Price,
	)
	if err != nil {
		return storeError("upsert product", err)
	}
	return nil
}
