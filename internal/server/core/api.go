// FILE: ludoteca/internal/server/core/api.go
package core

// Form field names. They match the inputs of the HTML forms and the
// column names of the persisted schema.
const (
	FieldName            = "nome"
	FieldMaxPlayers      = "numero_giocatori_massimo"
	FieldAverageDuration = "durata_media"
	FieldCategory        = "categoria"

	FieldDate         = "data"
	FieldWinner       = "vincitore"
	FieldWinningScore = "punteggio_vincitore"
)

// Request types

type CreateGameRequest struct {
	Name            string `form:"nome" validate:"notblank"`
	MaxPlayers      int    `form:"numero_giocatori_massimo" validate:"min=0"`
	AverageDuration int    `form:"durata_media" validate:"min=0"` // minutes
	Category        string `form:"categoria" validate:"notblank"`
}

type CreateMatchRequest struct {
	Date         string `form:"data" validate:"required,datetime=2006-01-02"`
	Winner       string `form:"vincitore" validate:"notblank"`
	WinningScore int    `form:"punteggio_vincitore" validate:"min=0"`
}

// Response types

type HealthResponse struct {
	Status  string    `json:"status"`
	Time    int64     `json:"time"`
	Storage string    `json:"storage"` // "ok" or "unavailable"
	Pool    PoolStats `json:"pool"`
}

// PoolStats is a snapshot of the database connection pool
type PoolStats struct {
	Open  int `json:"open"`
	InUse int `json:"in_use"`
	Idle  int `json:"idle"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
