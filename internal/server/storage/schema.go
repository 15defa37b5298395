package storage

import "time"

// DateLayout is the on-disk format of partite.data
const DateLayout = "2006-01-02"

// GameRecord represents a row in the giochi table
type GameRecord struct {
	ID              int64  `db:"id"`
	Name            string `db:"nome"`
	MaxPlayers      int    `db:"numero_giocatori_massimo"`
	AverageDuration int    `db:"durata_media"` // minutes
	Category        string `db:"categoria"`
}

// MatchRecord represents a row in the partite table
type MatchRecord struct {
	ID           int64     `db:"id"`
	GameID       int64     `db:"gioco_id"`
	Date         time.Time `db:"data"`
	Winner       string    `db:"vincitore"`
	WinningScore int       `db:"punteggio_vincitore"`
}

// Schema defines the SQLite database structure.
// Table and column names match databases created by earlier releases.
const Schema = `
CREATE TABLE IF NOT EXISTS giochi (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	nome TEXT NOT NULL,
	numero_giocatori_massimo INTEGER NOT NULL,
	durata_media INTEGER NOT NULL,
	categoria TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS partite (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	gioco_id INTEGER NOT NULL,
	data DATE NOT NULL,
	vincitore TEXT NOT NULL,
	punteggio_vincitore INTEGER NOT NULL,
	FOREIGN KEY (gioco_id) REFERENCES giochi (id)
);

CREATE INDEX IF NOT EXISTS idx_partite_gioco_data ON partite(gioco_id, data);
`
