package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Session is a lazily acquired, exclusively held database connection.
// A Session is not safe for concurrent use; each request gets its own.
type Session struct {
	db     *sql.DB
	conn   *sql.Conn
	closed bool
}

// ErrSessionClosed is returned by queries issued after Close
var ErrSessionClosed = errors.New("storage session closed")

// acquire returns the session connection, taking one from the pool on first use
func (s *Session) acquire(ctx context.Context) (*sql.Conn, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.conn != nil {
		return s.conn, nil
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	s.conn = conn
	return conn, nil
}

// Acquired reports whether a connection has been taken from the pool.
// Diagnostic only; queries acquire on their own.
func (s *Session) Acquired() bool {
	return s.conn != nil
}

// Close returns the connection to the pool. Safe to call more than once
// and on sessions that never ran a query.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// write runs fn in a transaction and commits before returning
func (s *Session) write(ctx context.Context, fn func(*sql.Tx) error) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
