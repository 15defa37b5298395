package http

import (
	"context"
	"log"
	"time"

	"ludoteca/internal/server/storage"

	"github.com/gofiber/fiber/v2"
)

const (
	localsSession = "session"
	localsGame    = "game"
)

// sessionMiddleware gives the request its own storage session and releases
// it when the chain returns, including on panic and timeout.
func sessionMiddleware(store *storage.Store, timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if timeout > 0 {
			ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
			defer cancel()
			c.SetUserContext(ctx)
		}

		sess := store.Session()
		defer func() {
			if err := sess.Close(); err != nil {
				log.Printf("Failed to release storage session: %v", err)
			}
		}()

		c.Locals(localsSession, sess)
		return c.Next()
	}
}

// sessionFrom returns the storage session opened by sessionMiddleware
func sessionFrom(c *fiber.Ctx) *storage.Session {
	sess, ok := c.Locals(localsSession).(*storage.Session)
	if !ok {
		// Route registered outside the session scope
		panic("storage session missing from request")
	}
	return sess
}

// gameFrom returns the game resolved by loadGame
func gameFrom(c *fiber.Ctx) *storage.GameRecord {
	game, _ := c.Locals(localsGame).(*storage.GameRecord)
	return game
}
