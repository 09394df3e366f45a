// Package ginidtoken adapts the ID token validation middleware to gin.
package ginidtoken

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	idtokenvalidation "github.com/oidcrp/go-idtoken-validation"
	"github.com/oidcrp/go-idtoken-validation/validator"
)

// DefaultTokenKey is the gin context key under which the validated
// token is stored.
const DefaultTokenKey = "idtoken"

var (
	ErrMissingToken = errors.New("no validated ID token found in context")
	ErrInvalidToken = errors.New("invalid ID token type in context")
)

// New creates a gin middleware validating the ID token on each request.
// The parse function should be an idtokenvalidation.JWXParser or a
// compatible implementation; it must be safe for concurrent use.
func New(parse idtokenvalidation.ParseToken, opts ...Option) gin.HandlerFunc {
	cfg := &config{
		errorHandler: defaultErrorHandler,
		contextKey:   DefaultTokenKey,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	mwOpts := append([]idtokenvalidation.Option{
		idtokenvalidation.WithParseToken(parse),
		idtokenvalidation.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			c, ok := r.Context().Value(gin.ContextKey).(*gin.Context)
			if !ok || c == nil {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(err.Error()))
				return
			}
			cfg.errorHandler(c, err)
		}),
	}, cfg.middlewareOptions...)

	middleware := idtokenvalidation.New(mwOpts...)

	return func(c *gin.Context) {
		// Make the gin context reachable from the request context so
		// the error handler can answer through gin.
		request := c.Request.WithContext(
			context.WithValue(c.Request.Context(), gin.ContextKey, c),
		)
		c.Request = request

		encounteredError := true
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			encounteredError = false
			c.Request = r

			if token, ok := idtokenvalidation.TokenFromContext(r.Context()); ok {
				c.Set(cfg.contextKey, token)
			}

			c.Next()
		}

		middleware.CheckIDToken(handler).ServeHTTP(c.Writer, c.Request)

		if encounteredError {
			c.Abort()
		}
	}
}

func defaultErrorHandler(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": err.Error(),
	})
}

// GetToken extracts the validated token from the gin context.
func GetToken(c *gin.Context, contextKey string) (*validator.DecodedToken, error) {
	if contextKey == "" {
		contextKey = DefaultTokenKey
	}

	value, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingToken
	}

	token, ok := value.(*validator.DecodedToken)
	if !ok {
		return nil, ErrInvalidToken
	}

	return token, nil
}
