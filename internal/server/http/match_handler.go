// FILE: ludoteca/internal/server/http/match_handler.go
package http

import (
	"errors"
	"fmt"

	"ludoteca/internal/server/core"
	"ludoteca/internal/server/storage"

	"github.com/gofiber/fiber/v2"
)

var matchFormFields = []string{
	core.FieldDate, core.FieldWinner, core.FieldWinningScore,
}

// loadGame resolves the :id parameter and stops the chain with 404 when
// the game does not exist
func (h *HTTPHandler) loadGame(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, storage.ErrGameNotFound.Error())
	}

	game, err := sessionFrom(c).GetGame(c.UserContext(), int64(id))
	if errors.Is(err, storage.ErrGameNotFound) {
		return fiber.NewError(fiber.StatusNotFound, storage.ErrGameNotFound.Error())
	}
	if err != nil {
		return err
	}

	c.Locals(localsGame, game)
	return c.Next()
}

// ListMatches renders a game with its matches, newest first
func (h *HTTPHandler) ListMatches(c *fiber.Ctx) error {
	game := gameFrom(c)

	matches, err := sessionFrom(c).ListMatches(c.UserContext(), game.ID)
	if err != nil {
		return err
	}

	return c.Render("matches.html", fiber.Map{
		"Game":    game,
		"Matches": matches,
	})
}

// NewMatchForm renders an empty match form for the game
func (h *HTTPHandler) NewMatchForm(c *fiber.Ctx) error {
	return renderMatchForm(c, gameFrom(c), "", map[string]string{})
}

// CreateMatch stores a submitted match and redirects to the game's matches
func (h *HTTPHandler) CreateMatch(c *fiber.Ctx) error {
	game := gameFrom(c)

	record, err := bindMatchForm(c, game.ID)
	if err != nil {
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			c.Status(fiber.StatusBadRequest)
			return renderMatchForm(c, game, ve.Details, formValues(c, matchFormFields...))
		}
		return err
	}

	_, err = sessionFrom(c).InsertMatch(c.UserContext(), record)
	if errors.Is(err, storage.ErrGameNotFound) {
		return fiber.NewError(fiber.StatusNotFound, storage.ErrGameNotFound.Error())
	}
	if err != nil {
		return err
	}

	return c.Redirect(fmt.Sprintf("/games/%d/matches", game.ID), fiber.StatusSeeOther)
}

func renderMatchForm(c *fiber.Ctx, game *storage.GameRecord, message string, values map[string]string) error {
	return c.Render("new_match.html", fiber.Map{
		"Game":  game,
		"Error": message,
		"Form":  values,
	})
}
