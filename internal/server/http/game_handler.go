// FILE: ludoteca/internal/server/http/game_handler.go
package http

import (
	"errors"

	"ludoteca/internal/server/core"

	"github.com/gofiber/fiber/v2"
)

var gameFormFields = []string{
	core.FieldName, core.FieldMaxPlayers, core.FieldAverageDuration, core.FieldCategory,
}

// ListGames renders every game ordered by id
func (h *HTTPHandler) ListGames(c *fiber.Ctx) error {
	games, err := sessionFrom(c).ListGames(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("games.html", fiber.Map{
		"Games": games,
	})
}

// NewGameForm renders an empty game creation form
func (h *HTTPHandler) NewGameForm(c *fiber.Ctx) error {
	return renderGameForm(c, "", map[string]string{})
}

// CreateGame stores a submitted game and redirects to the list
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	record, err := bindGameForm(c)
	if err != nil {
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			c.Status(fiber.StatusBadRequest)
			return renderGameForm(c, ve.Details, formValues(c, gameFormFields...))
		}
		return err
	}

	if _, err := sessionFrom(c).InsertGame(c.UserContext(), record); err != nil {
		return err
	}

	return c.Redirect("/games", fiber.StatusSeeOther)
}

func renderGameForm(c *fiber.Ctx, message string, values map[string]string) error {
	return c.Render("new_game.html", fiber.Map{
		"Error": message,
		"Form":  values,
	})
}
