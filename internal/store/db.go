package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Options controls the connection pool and the execution bridge.
type Options struct {
	// MaxOpenConns bounds the number of live SQLite connections.
	MaxOpenConns int
	// Workers is the number of dedicated goroutines that run units of work.
	Workers int
	// BusyTimeout is how long a connection waits on the SQLite write lock.
	BusyTimeout time.Duration
}

// DefaultOptions returns the pool settings used by the launcher.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns: 4,
		Workers:      4,
		BusyTimeout:  5 * time.Second,
	}
}

// Store owns the pooled SQLite handle and the bridge that lends its
// connections out.
type Store struct {
	db     *sql.DB
	bridge *Bridge
}

// New opens the SQLite database at dbPath and starts the execution bridge.
// Pragmas are applied through the DSN so every pooled connection gets them.
func New(dbPath string, opts Options) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if opts.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", opts.MaxOpenConns)
	}
	if opts.Workers <= 0 {
		return nil, fmt.Errorf("worker count must be positive, got %d", opts.Workers)
	}

	db, err := sql.Open("sqlite", dsn(dbPath, opts.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxOpenConns)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		db:     db,
		bridge: newBridge(db, opts.Workers),
	}, nil
}

// uriPathEscaper escapes the characters SQLite would otherwise read as
// URI syntax inside a file: path.
var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

func dsn(dbPath string, busyTimeout time.Duration) string {
	var sb strings.Builder
	sb.WriteString("file:")
	sb.WriteString(uriPathEscaper.Replace(dbPath))
	sb.WriteString("?_pragma=foreign_keys(1)")
	sb.WriteString("&_pragma=journal_mode(WAL)")
	fmt.Fprintf(&sb, "&_pragma=busy_timeout(%d)", busyTimeout.Milliseconds())
	// Take the write lock at BEGIN so two transactions never both hold a
	// read lock and then deadlock upgrading it.
	sb.WriteString("&_txlock=immediate")
	return sb.String()
}

// Close stops the bridge workers, waiting for in-flight work, and then
// closes the pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.bridge.close()
	return s.db.Close()
}

// DB returns the underlying pool for schema setup and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Bridge returns the execution bridge every repository runs through.
func (s *Store) Bridge() *Bridge {
	return s.bridge
}

// CreateSchema creates all tables and indexes.
func (s *Store) CreateSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
