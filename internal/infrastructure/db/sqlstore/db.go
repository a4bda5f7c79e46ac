// Package sqlstore implements the user and device repositories over
// database/sql. PostgreSQL (pgx) and SQLite (mattn/go-sqlite3) share the same
// queries; only the schema migrations differ per dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	defaultTimeout = 5 * time.Second

	pgUniqueViolation = "23505"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

// DBTX is the subset of database/sql used by the repositories.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Config captures the settings for opening a SQL store.
type Config struct {
	Dialect string
	DSN     string
	Timeout time.Duration
	// Log receives migration progress. The zero value discards it.
	Log zerolog.Logger
}

// DB is an open SQL store for one dialect.
type DB struct {
	conn    *sql.DB
	dialect string
	timeout time.Duration
	log     zerolog.Logger
}

// Open connects with the driver matching cfg.Dialect and verifies
// connectivity with a ping. A default timeout is applied when none is provided.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var driver string
	switch cfg.Dialect {
	case DialectPostgres:
		driver = "pgx"
	case DialectSQLite:
		driver = "sqlite3"
	default:
		return nil, fmt.Errorf("sqlstore: unsupported dialect %q", cfg.Dialect)
	}

	conn, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s open: %w", cfg.Dialect, err)
	}
	if cfg.Dialect == DialectSQLite {
		// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(time.Hour)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s ping: %w", cfg.Dialect, err)
	}

	return &DB{conn: conn, dialect: cfg.Dialect, timeout: timeout, log: cfg.Log}, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatal().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Migrate applies the embedded migrations for the store's dialect.
func (db *DB) Migrate(ctx context.Context) error {
	gooseDialect := "postgres"
	if db.dialect == DialectSQLite {
		gooseDialect = "sqlite3"
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log: db.log.With().Str("component", "goose").Logger()})
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db.conn, "migrations/"+db.dialect); err != nil {
		return fmt.Errorf("migrate %s: %w", db.dialect, err)
	}
	return nil
}

func (db *DB) Users() *UserRepository {
	return NewUserRepository(db.conn, db.timeout)
}

func (db *DB) Devices() *DeviceRepository {
	return NewDeviceRepository(db.conn, db.timeout)
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) Close(context.Context) error {
	return db.conn.Close()
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

// isUniqueViolation recognises unique-constraint failures from both drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
