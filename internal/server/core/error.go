package core

// Error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrNotFound          = "NOT_FOUND"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrTimeout           = "TIMEOUT"
	ErrInternalError     = "INTERNAL_ERROR"
)
