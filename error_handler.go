package idtokenvalidation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/oidcrp/go-idtoken-validation/validator"
)

// ErrTokenMissing is returned when no ID token could be found on the
// request.
var ErrTokenMissing = errors.New("id token missing")

// ErrorHandler is called when the middleware cannot validate a request.
// The err can be checked against ErrTokenMissing and
// validator.ErrTokenInvalid for the two interesting cases. The default
// handler answers 400 for a missing token, 401 for an invalid one, and
// 500 for everything else; a custom handler must take the same error
// types into account or the middleware will not behave as intended.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler is used when no WithErrorHandler option is given.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case errors.Is(err, ErrTokenMissing):
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"ID token is missing."}`))
	case errors.Is(err, validator.ErrTokenInvalid):
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"ID token is invalid."}`))
	default:
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Something went wrong while checking the ID token."}`))
	}
}

// invalidError wraps a parse or validation failure so that it matches
// validator.ErrTokenInvalid. We do not expose this publicly because the
// interface methods of Is and Unwrap give the user all they need.
type invalidError struct {
	details error
}

// Is allows the error to support equality to validator.ErrTokenInvalid.
func (e *invalidError) Is(target error) bool {
	return target == validator.ErrTokenInvalid
}

func (e *invalidError) Error() string {
	return fmt.Sprintf("%s: %s", validator.ErrTokenInvalid, e.details)
}

// Unwrap allows the error to support equality to the underlying error
// and not just validator.ErrTokenInvalid.
func (e *invalidError) Unwrap() error {
	return e.details
}
