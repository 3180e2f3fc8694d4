package db

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"orgdocs-backend/internal/shared/config"
	"orgdocs-backend/internal/shared/telemetry"
)

type nopDriver struct{}

func (d nopDriver) Open(name string) (driver.Conn, error) {
	return nopConn{}, nil
}

type nopConn struct{}

func (nopConn) Prepare(query string) (driver.Stmt, error) { return nopStmt{}, nil }
func (nopConn) Close() error                              { return nil }
func (nopConn) Begin() (driver.Tx, error)                 { return nopTx{}, nil }
func (nopConn) Ping(ctx context.Context) error            { return nil }

type nopStmt struct{}

func (nopStmt) Close() error                                   { return nil }
func (nopStmt) NumInput() int                                  { return -1 }
func (nopStmt) Exec(args []driver.Value) (driver.Result, error) { return nopResult{}, nil }
func (nopStmt) Query(args []driver.Value) (driver.Rows, error)  { return nopRows{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

type nopResult struct{}

func (nopResult) LastInsertId() (int64, error) { return 0, nil }
func (nopResult) RowsAffected() (int64, error) { return 0, nil }

type nopRows struct{}

func (nopRows) Columns() []string              { return []string{} }
func (nopRows) Close() error                   { return nil }
func (nopRows) Next(dest []driver.Value) error { return driver.ErrBadConn }

var registerTestDriverOnce sync.Once

func ensureTestDriverRegistered() {
	registerTestDriverOnce.Do(func() {
		sql.Register("dbtest", nopDriver{})
	})
}

func withTestDriver(t *testing.T) func() {
	t.Helper()
	t.Cleanup(telemetry.SetOutput(&bytes.Buffer{}))
	ensureTestDriverRegistered()
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		return sql.Open("dbtest", dsn)
	}
	return func() {
		openDB = prev
	}
}

func TestSharedPoolReturnsSamePointer(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()
	shared.reset()
	t.Cleanup(shared.reset)

	opts := OptionsFor(RuntimeLambda, config.DBPool{})
	db1, err := shared.get(context.Background(), "ignored", opts)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	db2, err := shared.get(context.Background(), "ignored", opts)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if db1 != db2 {
		t.Fatalf("expected shared pointers to match")
	}
}

func TestOptionsForAppliesOverrides(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()

	opts := OptionsFor(RuntimeServer, config.DBPool{
		MaxOpenConns:    7,
		MaxIdleConns:    3,
		ConnMaxLifetime: 20 * time.Minute,
		ConnMaxIdleTime: 45 * time.Second,
		PingTimeout:     time.Second,
	})
	db, err := Connect(context.Background(), "ignored", opts)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", got)
	}
	want := Options{MaxOpenConns: 7, MaxIdleConns: 3, ConnMaxLifetime: 20 * time.Minute, ConnMaxIdleTime: 45 * time.Second, PingTimeout: time.Second}
	if opts != want {
		t.Fatalf("OptionsFor = %+v, want %+v", opts, want)
	}
}

func TestOptionsForKeepsDefaults(t *testing.T) {
	tests := []struct {
		rt       Runtime
		wantOpen int
	}{
		{RuntimeServer, 10},
		{RuntimeLambda, 2},
		{RuntimeMigrate, 1},
		{Runtime(99), 10},
	}
	for _, tt := range tests {
		if got := OptionsFor(tt.rt, config.DBPool{}).MaxOpenConns; got != tt.wantOpen {
			t.Fatalf("runtime %d: MaxOpenConns = %d, want %d", tt.rt, got, tt.wantOpen)
		}
	}
}

func TestSharedPoolRetriesAfterFailure(t *testing.T) {
	var calls int32
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, driver.ErrBadConn
		}
		ensureTestDriverRegistered()
		return sql.Open("dbtest", dsn)
	}
	defer func() {
		openDB = prev
	}()
	defer telemetry.SetOutput(&bytes.Buffer{})()
	ensureTestDriverRegistered()
	shared.reset()
	t.Cleanup(shared.reset)

	opts := OptionsFor(RuntimeLambda, config.DBPool{})
	if _, err := shared.get(context.Background(), "ignored", opts); err == nil {
		t.Fatalf("expected first call to fail")
	}
	db2, err := shared.get(context.Background(), "ignored", opts)
	if err != nil {
		t.Fatalf("expected second call to succeed: %v", err)
	}
	if db2 == nil {
		t.Fatalf("expected db after retry")
	}
}

func TestConnectRejectsEmptyURL(t *testing.T) {
	_, err := Connect(context.Background(), "  ", OptionsFor(RuntimeServer, config.DBPool{}))
	if !errors.Is(err, ErrNoURL) {
		t.Fatalf("expected ErrNoURL, got %v", err)
	}
}

func TestOpenSharesPoolInLambda(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()
	shared.reset()
	t.Cleanup(shared.reset)

	cfg := config.Config{DatabaseURL: "ignored", Lambda: true}
	db1, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	db2, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if db1 != db2 {
		t.Fatalf("expected shared pool inside lambda")
	}
	if db1.Stats().MaxOpenConnections != 2 {
		t.Fatalf("expected lambda pool size 2, got %d", db1.Stats().MaxOpenConnections)
	}
}

func TestOpenOutsideLambdaUsesFreshPool(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()

	cfg := config.Config{DatabaseURL: "ignored", DBPool: config.DBPool{MaxOpenConns: 4}}
	db1, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db1.Close()
	db2, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db2.Close()
	if db1 == db2 {
		t.Fatalf("expected separate pools outside lambda")
	}
	if db1.Stats().MaxOpenConnections != 4 {
		t.Fatalf("expected pool size 4, got %d", db1.Stats().MaxOpenConnections)
	}
}

func TestMigrationNamesAreOrdered(t *testing.T) {
	names, err := MigrationNames()
	if err != nil {
		t.Fatalf("MigrationNames: %v", err)
	}
	if len(names) != 2 || !strings.Contains(names[0], "user_profiles") || !strings.Contains(names[1], "organization_documents") {
		t.Fatalf("unexpected migrations %v", names)
	}
}

func TestRunMigrationsNilDB(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("expected nil-db no-op, got %v", err)
	}
}
