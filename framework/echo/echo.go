// Package echoidtoken adapts the ID token validation middleware to
// echo.
package echoidtoken

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	idtokenvalidation "github.com/oidcrp/go-idtoken-validation"
	"github.com/oidcrp/go-idtoken-validation/validator"
)

// DefaultTokenKey is the echo context key under which the validated
// token is stored.
const DefaultTokenKey = "idtoken"

// echoContextKey carries the echo.Context through the request context
// so the error handler can answer through echo.
type echoContextKey struct{}

// New creates an echo middleware validating the ID token on each
// request.
func New(parse idtokenvalidation.ParseToken, opts ...Option) echo.MiddlewareFunc {
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
			c, ok := r.Context().Value(echoContextKey{}).(echo.Context)
			if !ok || c == nil {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(err.Error()))
				return
			}
			cfg.errorHandler(c, err)
		}),
	}, cfg.middlewareOptions...)

	middleware := idtokenvalidation.New(mwOpts...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var nextErr error
			encounteredError := true

			var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
				encounteredError = false
				c.SetRequest(r)

				if token, ok := idtokenvalidation.TokenFromContext(r.Context()); ok {
					c.Set(cfg.contextKey, token)
				}

				nextErr = next(c)
			}

			request := c.Request()
			request = request.WithContext(context.WithValue(request.Context(), echoContextKey{}, c))

			middleware.CheckIDToken(handler).ServeHTTP(c.Response(), request)

			if encounteredError {
				// The error handler already answered the request.
				return nil
			}
			return nextErr
		}
	}
}

func defaultErrorHandler(c echo.Context, err error) {
	_ = c.JSON(http.StatusUnauthorized, map[string]string{
		"message": err.Error(),
	})
}

// GetToken extracts the validated token from the echo context.
func GetToken(c echo.Context, contextKey string) (*validator.DecodedToken, bool) {
	if contextKey == "" {
		contextKey = DefaultTokenKey
	}

	token, ok := c.Get(contextKey).(*validator.DecodedToken)
	return token, ok
}
