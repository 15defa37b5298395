// FILE: ludoteca/internal/server/storage/game.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ListGames returns every game ordered by id
func (s *Session) ListGames(ctx context.Context) ([]GameRecord, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, nome, numero_giocatori_massimo, durata_media, categoria
		FROM giochi ORDER BY id ASC`

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(&g.ID, &g.Name, &g.MaxPlayers, &g.AverageDuration, &g.Category); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// GetGame retrieves a game by id, ErrGameNotFound if there is none
func (s *Session) GetGame(ctx context.Context, id int64) (*GameRecord, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}

	var g GameRecord
	query := `SELECT id, nome, numero_giocatori_massimo, durata_media, categoria
		FROM giochi WHERE id = ?`

	err = conn.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.Name, &g.MaxPlayers, &g.AverageDuration, &g.Category,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &g, nil
}

// InsertGame stores a new game and returns its id. The ID field of record is ignored.
func (s *Session) InsertGame(ctx context.Context, record GameRecord) (int64, error) {
	var id int64
	err := s.write(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO giochi (
			nome, numero_giocatori_massimo, durata_media, categoria
		) VALUES (?, ?, ?, ?)`

		res, err := tx.ExecContext(ctx, query,
			record.Name, record.MaxPlayers, record.AverageDuration, record.Category,
		)
		if err != nil {
			return fmt.Errorf("failed to insert game: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// CountGames returns the number of stored games
func (s *Session) CountGames(ctx context.Context) (int, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}

	var n int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM giochi`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return n, nil
}
