package echoidtoken

import (
	"github.com/labstack/echo/v4"

	idtokenvalidation "github.com/oidcrp/go-idtoken-validation"
)

type config struct {
	errorHandler      func(echo.Context, error)
	contextKey        string
	middlewareOptions []idtokenvalidation.Option
}

// Option configures the echo adapter.
type Option func(*config)

// WithErrorHandler sets an echo-aware error handler.
func WithErrorHandler(h func(echo.Context, error)) Option {
	return func(c *config) {
		c.errorHandler = h
	}
}

// WithContextKey sets the echo context key the validated token is
// stored under.
func WithContextKey(key string) Option {
	return func(c *config) {
		c.contextKey = key
	}
}

// WithMiddlewareOptions forwards options to the underlying middleware
// (extractors, algorithm map, logger, metrics, tracer, ...).
func WithMiddlewareOptions(opts ...idtokenvalidation.Option) Option {
	return func(c *config) {
		c.middlewareOptions = append(c.middlewareOptions, opts...)
	}
}
