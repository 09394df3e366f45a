package ginidtoken

import (
	"github.com/gin-gonic/gin"

	idtokenvalidation "github.com/oidcrp/go-idtoken-validation"
)

type config struct {
	errorHandler      func(*gin.Context, error)
	contextKey        string
	middlewareOptions []idtokenvalidation.Option
}

// Option configures the gin adapter.
type Option func(*config)

// WithErrorHandler sets a gin-aware error handler.
func WithErrorHandler(h func(*gin.Context, error)) Option {
	return func(c *config) {
		c.errorHandler = h
	}
}

// WithContextKey sets the gin context key the validated token is
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
