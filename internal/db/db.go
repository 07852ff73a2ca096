// Package db provides SQLite database access through a lazily-opened,
// process-wide connection pool.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Pool owns the database path and opens the underlying connection on first
// use. Concurrent first callers wait on the same open attempt; a failed open
// is not cached, so the next Get retries.
type Pool struct {
	path string

	mu   sync.Mutex
	conn *sql.DB
}

// NewPool creates a pool for the database at path. The database is not
// opened until the first Get.
func NewPool(path string) *Pool {
	return &Pool{path: path}
}

// Get returns the shared database handle, opening and migrating the
// database on the first successful call.
func (p *Pool) Get(ctx context.Context) (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil {
		return p.conn, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, err := open(p.path)
	if err != nil {
		return nil, err
	}

	p.conn = conn
	return p.conn, nil
}

// Close closes the underlying connection if it was ever opened.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

// open opens (or creates) a SQLite database at the given path,
// enables WAL mode and foreign keys, and runs migrations.
func open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := configure(conn); err != nil {
		closeErr := conn.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("%w (also failed to close: %v)", err, closeErr)
		}
		return nil, err
	}

	if err := migrate(conn); err != nil {
		closeErr := conn.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("running migrations: %w (also failed to close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return conn, nil
}

// configure sets SQLite pragmas for WAL mode and foreign keys.
func configure(conn *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	}

	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			return fmt.Errorf("executing %s: %w", p, err)
		}
	}

	return nil
}
