// FILE: ludoteca/internal/server/storage/storage.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// ErrGameNotFound is returned when a game id has no matching row
var ErrGameNotFound = errors.New("game not found")

// Store owns the SQLite handle. Requests reach the database through a Session.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens the database at path and verifies it is reachable
func NewStore(path string, devMode bool) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path, devMode))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// dsn builds the connection string. Pragmas are passed as DSN parameters so
// every pooled connection gets them, not only the first.
func dsn(path string, devMode bool) string {
	params := "_foreign_keys=on&_busy_timeout=5000&_sync=FULL"
	// WAL in development for better concurrency
	if devMode {
		params += "&_journal_mode=WAL"
	}
	return path + "?" + params
}

// InitDB creates the database schema if it does not exist
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return tx.Commit()
}

// Ping reports whether the database answers
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Session returns a handle scoped to one unit of work. No connection is
// taken from the pool until the first query.
func (s *Store) Session() *Session {
	return &Session{db: s.db}
}

// Close closes the database handle
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DeleteDB removes the database file
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// ☣ DESTRUCTIVE: Removes database file
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}

	return nil
}

// Stats exposes connection pool statistics, reported by /health
func (s *Store) Stats() sql.DBStats {
	return s.db.Stats()
}
