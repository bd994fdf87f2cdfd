package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/config"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/logging"
)

// Store persists clubs in SQLite or PostgreSQL.
type Store struct {
	db     *sqlx.DB
	driver string
	flavor sqlbuilder.Flavor
	logger *slog.Logger
	now    func() time.Time
}

// Option customizes Open.
type Option func(*Store)

// WithLogger routes store and migration logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logging.NewComponentLogger(logger, "store")
		}
	}
}

// WithClock overrides the timestamp source used for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open connects to the configured backend and applies pending migrations.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.Database.URL, opts...)
	case config.DriverSQLite, "":
		return OpenSQLite(ctx, cfg.Database.Path, opts...)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// OpenSQLite opens (creating if needed) a SQLite database file.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlx.Open(config.DriverSQLite, sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps pragmas consistent and avoids self-inflicted
	// SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	return open(ctx, db, sqliteDSN(path), config.DriverSQLite, sqlbuilder.SQLite, opts)
}

// OpenPostgres connects to a PostgreSQL server.
func OpenPostgres(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres connection url is empty")
	}
	db, err := sqlx.Open(config.DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return open(ctx, db, dsn, config.DriverPostgres, sqlbuilder.PostgreSQL, opts)
}

func open(ctx context.Context, db *sqlx.DB, dsn, driver string, flavor sqlbuilder.Flavor, opts []Option) (*Store, error) {
	s := &Store{
		db:     db,
		driver: driver,
		flavor: flavor,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx = ensureContext(ctx)
	if err := retryOnBusy(ctx, func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if err := s.migrate(dsn); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func sqliteDSN(path string) string {
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "busy_timeout(5000)")
	params.Add("_pragma", "journal_mode(WAL)")
	params.Set("_time_format", "sqlite")
	return "file:" + path + "?" + params.Encode()
}

// Driver returns the backend name, "sqlite" or "postgres".
func (s *Store) Driver() string {
	return s.driver
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
