package storage

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/shopcore/internal/core/domain"
)

type mysqlStores struct {
	orders    *MySQLOrderStore
	inventory *MySQLInventoryStore
	accounts  *MySQLAccountStore
	products  *MySQLProductStore
}

func newMock(t *testing.T) (*mysqlStores, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	stores := &mysqlStores{
		orders:    NewMySQLOrderStore(db),
		inventory: NewMySQLInventoryStore(db),
		accounts:  NewMySQLAccountStore(db),
		products:  NewMySQLProductStore(db),
	}
	return stores, mock, func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		_ = db.Close()
	}
}

func testOrder(now time.Time) domain.Order {
	return domain.Order{
		ID:     "order-1",
		UserID: "user-1",
		Lines: []domain.OrderLine{
			{ProductID: "P1", ProductName: "Linen shirt", Quantity: 1, UnitPrice: 2500},
			{ProductID: "P2", ProductName: "Canvas tote", Quantity: 1, UnitPrice: 2499},
		},
		Total:     4999,
		Status:    domain.OrderStatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMySQLOrder_CreateWritesAggregateAndOutbox(t *testing.T) {
	stores, mock, done := newMock(t)
	defer done()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	order := testOrder(now)
	rec := domain.OutboxRecord{ID: order.ID, Event: domain.NewOrderPlacedEvent(order), CreatedAt: now}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(order.ID, order.UserID, order.Total, order.Status, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(order.ID, 0, "P1", "Linen shirt", 1, int64(2500)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(order.ID, 1, "P2", "Canvas tote", 1, int64(2499)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_outbox").
		WithArgs(order.ID, sqlmock.AnyArg(), now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := stores.orders.CreateOrder(context.Background(), order, rec); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
}

func TestMySQLOrder_CreateRollsBackOnOutboxFailure(t *testing.T) {
	stores, mock, done := newMock(t)
	defer done()

	now := time.Now().UTC()
	order := testOrder(now)
	order.Lines = order.Lines[:1]

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_outbox").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := stores.orders.CreateOrder(context.Background(), order, domain.OutboxRecord{ID: order.ID, CreatedAt: now})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestMySQLOrder_GetJoinsLines(t *testing.T) {
	stores, mock, done := newMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, user_id, total, status").
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total", "status", "created_at", "updated_at"}).
			AddRow("order-1", "user-1", int64(4999), "CREATED", now, now))
	mock.ExpectQuery("FROM order_items WHERE order_id").
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "product_id", "product_name", "quantity", "unit_price"}).
			AddRow("order-1", "P1", "Linen shirt", 1, int64(2500)).
			AddRow("order-1", "P2", "Canvas tote", 1, int64(2499)))

	order, err := stores.orders.GetOrder(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if order.Status != domain.OrderStatusCreated || order.Total != 4999 || len(order.Lines) != 2 {
		t.Errorf("unexpected order %+v", order)
	}
}

func TestMySQLOrder_GetUnknownIsNotFound(t *testing.T) {
	stores, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, user_id, total, status").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total", "status", "created_at", "updated_at"}))

	if _, err := stores.orders.GetOrder(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMySQLOrder_ListAttachesLines(t *testing.T) {
	stores, mock, done := newMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("FROM orders ORDER BY").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total", "status", "created_at", "updated_at"}).
			AddRow("a", "user-1", int64(100), "CREATED", now, now).
			AddRow("b", "user-2", int64(200), "COMPLETED", now, now))
	mock.ExpectQuery("FROM order_items ORDER BY").
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "product_id", "product_name", "quantity", "unit_price"}).
			AddRow("a", "P1", "x", 1, int64(100)).
			AddRow("b", "P2", "y", 2, int64(100)))

	orders, err := stores.orders.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(orders) != 2 || len(orders[0].Lines) != 1 || orders[1].Lines[0].Quantity != 2 {
		t.Errorf("unexpected orders %+v", orders)
	}
}

func TestMySQLOrder_UpdateStatusConflictAndNotFound(t *testing.T) {
	stores, mock, done := newMock(t)
	defer done()

	at := time.Now().UTC()
	countQuery := regexp.QuoteMeta("SELECT COUNT(*) FROM orders WHERE id = ?")

	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.OrderStatusCompleted, at, "order-1", domain.OrderStatusCreated).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(countQuery).WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := stores.orders.UpdateStatus(context.Background(), "order-1", domain.OrderStatusCreated, domain.OrderStatusCompleted, at)
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(countQuery).WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err = stores.orders.UpdateStatus(context.Background(), "ghost", domain.OrderStatusCreated, domain.OrderStatusCompleted, at)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMySQLOrder_PendingOutboxDecodesEvents(t *testing.T) {
	stores, mock, done := newMock(t)
	defer done()

	now := time.Now().UTC()
	payload, _ := json.Marshal(domain.OrderPlacedEvent{OrderID: "order-1", Total: 4999})
	cutoff := now.Add(-30 * time.Second)

	mock.ExpectQuery("FROM order_outbox").
		WithArgs(cutoff, 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "payload", "created_at"}).
			AddRow("order-1", payload, now.Add(-time.Minute)))

	records, err := stores.orders.PendingOutbox(context.Background(), cutoff, 100)
	if err != nil {
		t.Fatalf("PendingOutbox failed: %v", err)
	}
	if len(records) != 1 || records[0].Event.Total != 4999 {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestMySQLInventory_SetStockVersioned(t *testing.T) {
	stores, mock, done := newMock(t)
	defer done()
	stores.inventory.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	at := stores.inventory.now()

	mock.ExpectExec("UPDATE inventory").
		WithArgs(5, at, "P1", 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM inventory")).
		WithArgs("P1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := stores.inventory.SetStock(context.Background(), "P1", 5, 3)
	if !errors.Is(err, ErrOptimisticLock) || !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected optimistic lock conflict, got %v", err)
	}
}

func TestMySQLInventory_SetStockUnversionedMissing(t *testing.T) {
	stores, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("UPDATE inventory").WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := stores.inventory.SetStock(context.Background(), "ghost", 5, -1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMySQLInventory_ApplyOrder(t *testing.T) {
	stores, mock, done := newMock(t)
	defer done()

	event := domain.OrderPlacedEvent{
		OrderID: "order-1",
		Lines: []domain.EventLine{
			{ProductID: "P2", Quantity: 2},
			{ProductID: "P1", Quantity: 3},
			{ProductID: "P3", Quantity: 1},
		},
	}

	lockQuery := regexp.QuoteMeta("SELECT stock FROM inventory WHERE product_id = ? FOR UPDATE")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT IGNORE INTO inventory_inbox").
		WithArgs("order-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(lockQuery).WithArgs("P1").
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(10))
	mock.ExpectExec("UPDATE inventory").
		WithArgs(7, sqlmock.AnyArg(), "P1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(lockQuery).WithArgs("P2").
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(1))
	mock.ExpectExec("DELETE FROM inventory").
		WithArgs("P2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(lockQuery).WithArgs("P3").
		WillReturnRows(sqlmock.NewRows([]string{"stock"}))
	mock.ExpectCommit()

	applied, shortfalls, err := stores.inventory.ApplyOrder(context.Background(), event)
	if err != nil {
		t.Fatalf("ApplyOrder failed: %v", err)
	}
	if !applied {
		t.Error("expected order to be applied")
	}
	if len(shortfalls) != 1 || shortfalls[0].ProductID != "P2" || shortfalls[0].Available != 1 {
		t.Errorf("unexpected shortfalls %+v", shortfalls)
	}
}

func TestMySQLInventory_ApplyOrderDuplicate(t *testing.T) {
	stores, mock, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT IGNORE INTO inventory_inbox").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	applied, _, err := stores.inventory.ApplyOrder(context.Background(), domain.OrderPlacedEvent{
		OrderID: "order-1",
		Lines:   []domain.EventLine{{ProductID: "P1", Quantity: 1}},
	})
	if err != nil || applied {
		t.Errorf("expected duplicate to be skipped, got applied=%v err=%v", applied, err)
	}
}

func TestMySQLAccount_DuplicateEmail(t *testing.T) {
	stores, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO accounts").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := stores.accounts.CreateAccount(context.Background(), domain.Account{ID: "a", Email: "a@example.com"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestMySQLProduct_NotFound(t *testing.T) {
	stores, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, name, price FROM products").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}))

	if _, err := stores.products.GetProduct(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMySQL_UnreachableStoreIsUpstreamUnavailable(t *testing.T) {
	stores, mock, done := newMock(t)
	defer done()

	reset := &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")}
	mock.ExpectQuery("FROM inventory WHERE product_id").
		WithArgs("P1").
		WillReturnError(reset)

	_, err := stores.inventory.GetInventory(context.Background(), "P1")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestMySQL_QueryFaultStaysInternal(t *testing.T) {
	stores, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery("FROM inventory WHERE product_id").
		WithArgs("P1").
		WillReturnError(&mysql.MySQLError{Number: 1064, Message: "syntax error"})

	_, err := stores.inventory.GetInventory(context.Background(), "P1")
	if err == nil || errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("expected a plain store error, got %v", err)
	}
}
