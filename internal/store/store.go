// Package store persists the back-office records in SQLite or PostgreSQL and
// serves them to list screens one page at a time.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"              // SQLite driver (pure Go)

	"github.com/brandedliving/backoffice/pkg/datatable"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownScreen is returned for a screen name the store does not serve.
	ErrUnknownScreen = errors.New("unknown screen")
	// ErrUnknownColumn is returned for a facet column a screen does not have.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrInvalidStatus is returned when a status is not valid for a screen.
	ErrInvalidStatus = errors.New("invalid status")
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// MaxPageSize caps the page size a caller may request.
const MaxPageSize = 100

// Config configures a Store.
type Config struct {
	// Driver is "sqlite" or "postgres".
	Driver string
	// DSN is a file path (or ":memory:") for sqlite and a connection string for postgres.
	DSN string
	// MaxGap tunes the fuzzy search; zero means datatable.DefaultMaxGap.
	MaxGap int
	Logger *slog.Logger
}

// Store is the SQL record store.
type Store struct {
	db      *sql.DB
	driver  string
	builder squirrel.StatementBuilderType
	maxGap  int
	logger  *slog.Logger
}

// Open connects to the configured database. Call Migrate before first use.
func Open(cfg Config) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	maxGap := cfg.MaxGap
	if maxGap <= 0 {
		maxGap = datatable.DefaultMaxGap
	}

	var (
		db  *sql.DB
		err error
		ph  squirrel.PlaceholderFormat
	)
	switch cfg.Driver {
	case "", DriverSQLite:
		cfg.Driver = DriverSQLite
		db, err = openSQLite(cfg.DSN)
		ph = squirrel.Question
	case DriverPostgres, "pgx":
		cfg.Driver = DriverPostgres
		db, err = sql.Open("pgx", cfg.DSN)
		ph = squirrel.Dollar
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	logger.Debug("opened database", "driver", cfg.Driver)
	return &Store{
		db:      db,
		driver:  cfg.Driver,
		builder: squirrel.StatementBuilder.PlaceholderFormat(ph),
		maxGap:  maxGap,
		logger:  logger,
	}, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_time_format=sqlite"
		if path != ":memory:" {
			dsn += "&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the normalized driver name.
func (s *Store) Driver() string {
	return s.driver
}
