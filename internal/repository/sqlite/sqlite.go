// Package sqlite implements the repository contracts on a single-file SQLite
// database (the format the dataset ships in) through the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/rs/zerolog"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const backend = "sqlite"

// Registration is process wide and applies to connections opened afterwards.
func init() {
	moderncsqlite.MustRegisterDeterministicScalarFunction(repository.SQLiteDialect.Lower, 1, foldFunc(strings.ToLower))
	moderncsqlite.MustRegisterDeterministicScalarFunction(repository.SQLiteDialect.Upper, 1, foldFunc(strings.ToUpper))
}

// foldFunc adapts a Unicode case mapping to a SQL scalar function. NULL stays NULL.
func foldFunc(fold func(string) string) func(*moderncsqlite.FunctionContext, []driver.Value) (driver.Value, error) {
	return func(_ *moderncsqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case nil:
			return nil, nil
		case string:
			return fold(v), nil
		case []byte:
			return fold(string(v)), nil
		default:
			return v, nil
		}
	}
}

// Open opens (creating if needed) the database file at path and verifies it answers.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(4)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	logger.Info().Str("path", path).Msg("opened SQLite database")
	return db, nil
}

// q is the executor shared by *sql.DB and *sql.Tx.
type q interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

func getQ(ctx context.Context, db *sql.DB) q {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok && tx != nil {
		return tx
	}
	return db
}

type store struct {
	db      *sql.DB
	timeout time.Duration
}

func (s store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func ensureDB(db *sql.DB) error {
	if db == nil {
		return errors.New("sqlite db is nil")
	}
	return nil
}

// mapError translates driver failures into repository errors. Busy or locked
// databases, closed connections and deadlines all read as unavailable storage.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return repository.Unavailable(err)
	}
	var se *moderncsqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN,
			sqlite3.SQLITE_IOERR, sqlite3.SQLITE_INTERRUPT:
			return repository.Unavailable(err)
		case sqlite3.SQLITE_CONSTRAINT:
			return repository.ErrConflict
		}
	}
	return err
}

type txManager struct{ db *sql.DB }

func NewTxManager(db *sql.DB) repository.TxManager { return &txManager{db: db} }

// WithinReadTx runs fn in one transaction; SQLite transactions are
// serializable, so reads inside it share a snapshot.
func (m *txManager) WithinReadTx(ctx context.Context, fn repository.TxFunc) error {
	if err := ensureDB(m.db); err != nil {
		return err
	}
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return mapError(err)
	}
	return mapError(tx.Commit())
}

type pinger struct{ db *sql.DB }

func NewPinger(db *sql.DB) repository.Pinger { return &pinger{db: db} }

func (p *pinger) Ping(ctx context.Context) error {
	if err := ensureDB(p.db); err != nil {
		return err
	}
	return mapError(p.db.PingContext(ctx))
}

var (
	_ repository.TxManager = (*txManager)(nil)
	_ repository.Pinger    = (*pinger)(nil)
)
