package idtokenvalidation

import (
	"errors"
	"net/http"
	"strings"
)

// TokenExtractor is a function that takes a request as input and
// returns either a compact-encoded ID token or an error. An error
// should only be returned if an attempt to specify a token was found,
// but the information was somehow incorrectly formed. In the case where
// a token is simply not present, this should not be treated as an
// error; an empty string should be returned instead.
type TokenExtractor func(r *http.Request) (string, error)

// ValueExtractor pulls a companion value (the authorization code, the
// expected nonce) off the request. An empty result means the value is
// absent and the corresponding check is skipped.
type ValueExtractor func(r *http.Request) (string, error)

// FormTokenExtractor extracts the ID token from the id_token form or
// query parameter, where the hybrid and implicit flows deliver it.
func FormTokenExtractor(r *http.Request) (string, error) {
	return r.FormValue("id_token"), nil
}

// AuthHeaderTokenExtractor extracts the token from the Authorization
// header.
func AuthHeaderTokenExtractor(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", nil // No error, just no token.
	}

	authHeaderParts := strings.Fields(authHeader)
	if len(authHeaderParts) != 2 || !strings.EqualFold(authHeaderParts[0], "bearer") {
		return "", errors.New("Authorization header format must be Bearer {token}")
	}

	return authHeaderParts[1], nil
}

// ParameterTokenExtractor returns a TokenExtractor that extracts the
// token from the specified query string parameter.
func ParameterTokenExtractor(param string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		return r.URL.Query().Get(param), nil
	}
}

// MultiTokenExtractor returns a TokenExtractor that runs multiple
// TokenExtractors and takes the first one that does not return an empty
// token. If an extractor returns an error that error is immediately
// returned.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) (string, error) {
		for _, ex := range extractors {
			token, err := ex(r)
			if err != nil {
				return "", err
			}

			if token != "" {
				return token, nil
			}
		}
		return "", nil
	}
}

// FormCodeExtractor extracts the authorization code from the code form
// or query parameter, where the hybrid flow delivers it alongside the
// token.
func FormCodeExtractor(r *http.Request) (string, error) {
	return r.FormValue("code"), nil
}

// CookieValueExtractor returns a ValueExtractor that reads the named
// cookie. The relying party typically stores the nonce it issued with
// the authentication request in such a cookie.
func CookieValueExtractor(name string) ValueExtractor {
	return func(r *http.Request) (string, error) {
		cookie, err := r.Cookie(name)
		if errors.Is(err, http.ErrNoCookie) {
			return "", nil // No cookie means no value, not an error.
		}

		return cookie.Value, nil
	}
}

// FormValueExtractor returns a ValueExtractor that reads the named form
// or query parameter.
func FormValueExtractor(param string) ValueExtractor {
	return func(r *http.Request) (string, error) {
		return r.FormValue(param), nil
	}
}
