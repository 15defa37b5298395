// FILE: ludoteca/internal/server/http/handler.go
package http

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"ludoteca/internal/server/core"
	"ludoteca/internal/server/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const (
	defaultWriteLimit     = 30 // POST req/min per IP
	defaultRequestTimeout = 10 * time.Second
)

// Config tunes the HTTP layer
type Config struct {
	DevMode        bool
	WriteLimit     int           // POST requests per minute per IP, 0 disables limiting
	RequestTimeout time.Duration // bounds storage work per request, 0 disables
	AccessLog      io.Writer     // nil logs to stdout
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		WriteLimit:     defaultWriteLimit,
		RequestTimeout: defaultRequestTimeout,
	}
}

// HTTPHandler serves the game and match pages
type HTTPHandler struct {
	store *storage.Store
}

func NewHTTPHandler(store *storage.Store) *HTTPHandler {
	return &HTTPHandler{store: store}
}

func NewFiberApp(store *storage.Store, cfg Config) (*fiber.App, error) {
	views, err := NewViews()
	if err != nil {
		return nil, err
	}

	h := NewHTTPHandler(store)

	app := fiber.New(fiber.Config{
		Views:        views,
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	logCfg := logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}
	if cfg.AccessLog != nil {
		logCfg.Output = cfg.AccessLog
	}
	app.Use(logger.New(logCfg))

	// Health check, outside the session scope
	app.Get("/health", h.Health)

	// Every route below runs with its own storage session
	app.Use(sessionMiddleware(store, cfg.RequestTimeout))

	write := writeLimiter(cfg)

	app.Get("/", h.Index)
	app.Get("/games", h.ListGames)
	app.Get("/games/new", h.NewGameForm)
	app.Post("/games/new", write, h.CreateGame)
	app.Get("/games/:id<int>/matches", h.loadGame, h.ListMatches)
	app.Get("/games/:id<int>/matches/new", h.loadGame, h.NewMatchForm)
	// Unknown games answer 404 before the limiter counts the request
	app.Post("/games/:id<int>/matches/new", h.loadGame, write, h.CreateMatch)

	return app, nil
}

// writeLimiter returns the rate limiting handler for POST routes
func writeLimiter(cfg Config) fiber.Handler {
	if cfg.WriteLimit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	maxReq := cfg.WriteLimit
	if cfg.DevMode {
		maxReq = cfg.WriteLimit * 2
	}

	return limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}

// customErrorHandler renders every failure through the error view
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		response.Error = fe.Message

		// Map HTTP status to error codes
		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrNotFound
			if fe.Message == storage.ErrGameNotFound.Error() {
				response.Code = core.ErrGameNotFound
			}
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusMethodNotAllowed:
			response.Code = core.ErrMethodNotAllowed
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	case errors.Is(err, context.DeadlineExceeded):
		code = fiber.StatusGatewayTimeout
		response.Error = "request timed out"
		response.Code = core.ErrTimeout
		log.Printf("Request %s %s timed out: %v", c.Method(), c.Path(), err)
	default:
		log.Printf("Request %s %s failed: %v", c.Method(), c.Path(), err)
	}

	c.Status(code)
	if rerr := c.Render("error.html", fiber.Map{
		"Status": code,
		"Error":  response,
	}); rerr != nil {
		log.Printf("Failed to render error page: %v", rerr)
		return c.SendString(response.Error)
	}
	return nil
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	status := "ok"
	if err := h.store.Ping(c.UserContext()); err != nil {
		status = "unavailable"
	}
	stats := h.store.Stats()
	return c.JSON(core.HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Unix(),
		Storage: status,
		Pool: core.PoolStats{
			Open:  stats.OpenConnections,
			InUse: stats.InUse,
			Idle:  stats.Idle,
		},
	})
}

// Index sends visitors to the game list
func (h *HTTPHandler) Index(c *fiber.Ctx) error {
	return c.Redirect("/games", fiber.StatusFound)
}
