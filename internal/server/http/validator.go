// FILE: ludoteca/internal/server/http/validator.go
package http

import (
	"fmt"
	"strings"
	"time"

	"ludoteca/internal/server/core"
	"ludoteca/internal/server/storage"

	"github.com/gofiber/fiber/v2"
)

// formValues echoes submitted fields back into a re-rendered form
func formValues(c *fiber.Ctx, fields ...string) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f] = c.FormValue(f)
	}
	return values
}

// bindGameForm parses and validates the game creation form
func bindGameForm(c *fiber.Ctx) (storage.GameRecord, error) {
	var (
		req core.CreateGameRequest
		err error
	)
	req.Name = c.FormValue(core.FieldName)
	req.Category = c.FormValue(core.FieldCategory)
	if req.MaxPlayers, err = core.ParseCount(core.FieldMaxPlayers, c.FormValue(core.FieldMaxPlayers)); err != nil {
		return storage.GameRecord{}, err
	}
	if req.AverageDuration, err = core.ParseCount(core.FieldAverageDuration, c.FormValue(core.FieldAverageDuration)); err != nil {
		return storage.GameRecord{}, err
	}

	if err := core.Validate(&req); err != nil {
		return storage.GameRecord{}, err
	}

	return storage.GameRecord{
		Name:            req.Name,
		MaxPlayers:      req.MaxPlayers,
		AverageDuration: req.AverageDuration,
		Category:        req.Category,
	}, nil
}

// bindMatchForm parses and validates the match creation form for gameID
func bindMatchForm(c *fiber.Ctx, gameID int64) (storage.MatchRecord, error) {
	var (
		req core.CreateMatchRequest
		err error
	)
	req.Date = strings.TrimSpace(c.FormValue(core.FieldDate))
	req.Winner = c.FormValue(core.FieldWinner)
	if req.WinningScore, err = core.ParseCount(core.FieldWinningScore, c.FormValue(core.FieldWinningScore)); err != nil {
		return storage.MatchRecord{}, err
	}

	if err := core.Validate(&req); err != nil {
		return storage.MatchRecord{}, err
	}

	// Format already checked by the datetime rule
	date, err := time.Parse(storage.DateLayout, req.Date)
	if err != nil {
		return storage.MatchRecord{}, &core.ValidationError{Details: fmt.Sprintf("%s is not a valid date", core.FieldDate)}
	}

	return storage.MatchRecord{
		GameID:       gameID,
		Date:         date,
		Winner:       req.Winner,
		WinningScore: req.WinningScore,
	}, nil
}
