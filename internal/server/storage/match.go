// FILE: ludoteca/internal/server/storage/match.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// ListMatches returns the matches of a game, most recent date first
func (s *Session) ListMatches(ctx context.Context, gameID int64) ([]MatchRecord, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}

	// CAST keeps the driver from guessing a time format for the DATE column
	query := `SELECT id, gioco_id, CAST(data AS TEXT), vincitore, punteggio_vincitore
		FROM partite WHERE gioco_id = ?
		ORDER BY data DESC, id DESC`

	rows, err := conn.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var matches []MatchRecord
	for rows.Next() {
		var (
			m    MatchRecord
			date string
		)
		if err := rows.Scan(&m.ID, &m.GameID, &date, &m.Winner, &m.WinningScore); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if m.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("match %d: %w", m.ID, err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return matches, nil
}

// InsertMatch stores a match for an existing game and returns its id.
// ErrGameNotFound if record.GameID references no game.
func (s *Session) InsertMatch(ctx context.Context, record MatchRecord) (int64, error) {
	var id int64
	err := s.write(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO partite (
			gioco_id, data, vincitore, punteggio_vincitore
		) VALUES (?, ?, ?, ?)`

		res, err := tx.ExecContext(ctx, query,
			record.GameID, record.Date.Format(DateLayout), record.Winner, record.WinningScore,
		)
		if err != nil {
			var sqliteErr sqlite3.Error
			if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
				return ErrGameNotFound
			}
			return fmt.Errorf("failed to insert match: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// CountMatches returns the number of stored matches across all games
func (s *Session) CountMatches(ctx context.Context) (int, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}

	var n int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM partite`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return n, nil
}

// parseDate accepts the stored layout and, for rows written by other
// tools, a full timestamp
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}
