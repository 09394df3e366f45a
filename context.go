package idtokenvalidation

import (
	"context"

	"github.com/oidcrp/go-idtoken-validation/validator"
)

// ContextKey is the request context key under which the validated
// DecodedToken is stored after CheckIDToken succeeds.
type ContextKey struct{}

// SetToken stores a validated token in the context. Adapters use this
// after running validation themselves.
func SetToken(ctx context.Context, token *validator.DecodedToken) context.Context {
	return context.WithValue(ctx, ContextKey{}, token)
}

// TokenFromContext returns the validated token stored by the
// middleware, if any.
func TokenFromContext(ctx context.Context) (*validator.DecodedToken, bool) {
	token, ok := ctx.Value(ContextKey{}).(*validator.DecodedToken)
	return token, ok
}
