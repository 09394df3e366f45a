package idtokenvalidation

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oidcrp/go-idtoken-validation/validator"
)

func ptr[T any](v T) *T { return &v }

// testToken builds a token that passes the required-claims check, with
// nonce and c_hash bound to the given values.
func testToken(nonce, code string) *validator.DecodedToken {
	digest := sha256.Sum256([]byte(code))
	chash := base64.RawURLEncoding.EncodeToString(digest[:sha256.Size/2])

	return &validator.DecodedToken{
		Header: map[string]string{"alg": "RS256"},
		Claims: validator.Claims{
			Issuer:   ptr("https://issuer.example.com/"),
			Subject:  ptr("user-123"),
			Audience: []string{"client-abc"},
			Expiry:   ptr(int64(1735689600)),
			IssuedAt: ptr(int64(1735686000)),
			Nonce:    ptr(nonce),
			Extra:    map[string]interface{}{"c_hash": chash},
		},
		Raw: "eyJhbGciOiJSUzI1NiJ9.e30.sig",
	}
}

var echoHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if token, ok := TokenFromContext(r.Context()); ok {
		io.WriteString(w, "authenticated as "+*token.Claims.Subject)
		return
	}
	io.WriteString(w, "anonymous")
})

// recordingMetrics captures counter increments for assertions.
type recordingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *recordingMetrics) IncCounter(name string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[name+"/"+labels["result"]]++
}

func (m *recordingMetrics) ObserveHistogram(string, float64, map[string]string) {}

func TestCheckIDToken(t *testing.T) {
	parse := func(_ context.Context, raw string) (*validator.DecodedToken, error) {
		if raw != "good-token" {
			return nil, errors.New("signature verification failed")
		}
		return testToken("n-0S6_WzA2Mj", "SplxlOBeZQQYbYS6WxSbIA"), nil
	}

	tests := []struct {
		name    string
		options []Option
		form    url.Values
		cookie  *http.Cookie

		expectStatusCode int
		expectBody       string
		expectCount      string
	}{
		{
			name: "it accepts a request with a valid token, code and nonce",
			form: url.Values{
				"id_token": []string{"good-token"},
				"code":     []string{"SplxlOBeZQQYbYS6WxSbIA"},
			},
			cookie:           &http.Cookie{Name: "oidc_nonce", Value: "n-0S6_WzA2Mj"},
			expectStatusCode: http.StatusOK,
			expectBody:       "authenticated as user-123",
			expectCount:      "valid",
		},
		{
			name:             "it rejects a request without a token",
			form:             url.Values{},
			expectStatusCode: http.StatusBadRequest,
			expectBody:       `{"message":"ID token is missing."}`,
			expectCount:      "missing",
		},
		{
			name: "it rejects a token that fails to parse",
			form: url.Values{
				"id_token": []string{"tampered-token"},
			},
			expectStatusCode: http.StatusUnauthorized,
			expectBody:       `{"message":"ID token is invalid."}`,
			expectCount:      "parse_error",
		},
		{
			name: "it rejects a token whose nonce does not match the cookie",
			form: url.Values{
				"id_token": []string{"good-token"},
				"code":     []string{"SplxlOBeZQQYbYS6WxSbIA"},
			},
			cookie:           &http.Cookie{Name: "oidc_nonce", Value: "a-different-nonce"},
			expectStatusCode: http.StatusUnauthorized,
			expectBody:       `{"message":"ID token is invalid."}`,
			expectCount:      "invalid",
		},
		{
			name: "it rejects a token whose c_hash does not match the code",
			form: url.Values{
				"id_token": []string{"good-token"},
				"code":     []string{"a-substituted-code"},
			},
			cookie:           &http.Cookie{Name: "oidc_nonce", Value: "n-0S6_WzA2Mj"},
			expectStatusCode: http.StatusUnauthorized,
			expectBody:       `{"message":"ID token is invalid."}`,
			expectCount:      "invalid",
		},
		{
			name: "it accepts a valid token when code and nonce are absent",
			form: url.Values{
				"id_token": []string{"good-token"},
			},
			expectStatusCode: http.StatusOK,
			expectBody:       "authenticated as user-123",
			expectCount:      "valid",
		},
		{
			name:             "it lets a tokenless request through when credentials are optional",
			options:          []Option{WithCredentialsOptional(true)},
			form:             url.Values{},
			expectStatusCode: http.StatusOK,
			expectBody:       "anonymous",
		},
		{
			name: "it reports an extractor failure as a server error",
			options: []Option{
				WithTokenExtractor(func(r *http.Request) (string, error) {
					return "", errors.New("malformed request")
				}),
			},
			form:             url.Values{},
			expectStatusCode: http.StatusInternalServerError,
			expectBody:       `{"message":"Something went wrong while checking the ID token."}`,
			expectCount:      "extract_error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			metrics := &recordingMetrics{}
			options := append([]Option{
				WithParseToken(parse),
				WithMetrics(metrics),
			}, tc.options...)

			m := New(options...)
			server := httptest.NewServer(m.CheckIDToken(echoHandler))
			defer server.Close()

			request, err := http.NewRequest(
				http.MethodPost,
				server.URL,
				strings.NewReader(tc.form.Encode()),
			)
			require.NoError(t, err)
			request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tc.cookie != nil {
				request.AddCookie(tc.cookie)
			}

			response, err := server.Client().Do(request)
			require.NoError(t, err)
			defer response.Body.Close()

			body, err := io.ReadAll(response.Body)
			require.NoError(t, err)

			assert.Equal(t, tc.expectStatusCode, response.StatusCode)
			assert.Equal(t, tc.expectBody, string(body))

			if tc.expectCount != "" {
				assert.Equal(t, 1, metrics.counts[MetricValidations+"/"+tc.expectCount])
			}
		})
	}
}

func TestCheckIDTokenMapsValidatorErrors(t *testing.T) {
	parse := func(context.Context, string) (*validator.DecodedToken, error) {
		token := testToken("n-0S6_WzA2Mj", "SplxlOBeZQQYbYS6WxSbIA")
		token.Claims.Subject = nil
		return token, nil
	}

	var handled error
	m := New(
		WithParseToken(parse),
		WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			handled = err
			w.WriteHeader(http.StatusUnauthorized)
		}),
	)

	request := httptest.NewRequest(http.MethodGet, "/callback?id_token=anything", nil)
	m.CheckIDToken(echoHandler).ServeHTTP(httptest.NewRecorder(), request)

	require.Error(t, handled)
	assert.ErrorIs(t, handled, validator.ErrTokenInvalid)

	var missingErr *validator.MissingClaimError
	assert.ErrorAs(t, handled, &missingErr)
	assert.Equal(t, "sub", missingErr.Claim)
}

func TestCheckIDTokenUsesConfiguredExtractors(t *testing.T) {
	parse := func(context.Context, string) (*validator.DecodedToken, error) {
		return testToken("n-0S6_WzA2Mj", "SplxlOBeZQQYbYS6WxSbIA"), nil
	}

	m := New(
		WithParseToken(parse),
		WithTokenExtractor(AuthHeaderTokenExtractor),
		WithCodeExtractor(FormValueExtractor("authorization_code")),
		WithNonceExtractor(FormValueExtractor("expected_nonce")),
	)

	request := httptest.NewRequest(
		http.MethodGet,
		"/callback?authorization_code=SplxlOBeZQQYbYS6WxSbIA&expected_nonce=n-0S6_WzA2Mj",
		nil,
	)
	request.Header.Set("Authorization", "Bearer anything")

	recorder := httptest.NewRecorder()
	m.CheckIDToken(echoHandler).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "authenticated as user-123", recorder.Body.String())
}
