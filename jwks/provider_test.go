package jwks

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testIssuer serves a discovery document and a JWKS for a generated
// RSA key, counting JWKS fetches.
type testIssuer struct {
	server     *httptest.Server
	keySetJSON []byte
	fetchCount int32
}

func newTestIssuer(t *testing.T) *testIssuer {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	key, err := jwk.FromRaw(&privateKey.PublicKey)
	require.NoError(t, err)
	require.NoError(t, key.Set(jwk.KeyIDKey, "issuer-key"))

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(key))

	keySetJSON, err := json.Marshal(set)
	require.NoError(t, err)

	issuer := &testIssuer{keySetJSON: keySetJSON}
	issuer.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/.well-known/openid-configuration":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{
				"issuer":   issuer.server.URL,
				"jwks_uri": issuer.server.URL + "/.well-known/jwks.json",
			})
		case "/.well-known/jwks.json":
			atomic.AddInt32(&issuer.fetchCount, 1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(issuer.keySetJSON)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(issuer.server.Close)

	return issuer
}

func (i *testIssuer) url(t *testing.T) *url.URL {
	t.Helper()

	u, err := url.Parse(i.server.URL)
	require.NoError(t, err)
	return u
}

func TestProvider(t *testing.T) {
	t.Run("it discovers and fetches the key set", func(t *testing.T) {
		issuer := newTestIssuer(t)

		provider, err := NewProvider(WithIssuerURL(issuer.url(t)))
		require.NoError(t, err)

		set, err := provider.KeyFunc(context.Background())
		require.NoError(t, err)

		key, found := set.LookupKeyID("issuer-key")
		assert.True(t, found)
		assert.NotNil(t, key)
	})

	t.Run("it skips discovery when a custom JWKS URI is given", func(t *testing.T) {
		issuer := newTestIssuer(t)

		jwksURI := issuer.url(t)
		jwksURI.Path = "/.well-known/jwks.json"

		provider, err := NewProvider(WithCustomJWKSURI(jwksURI))
		require.NoError(t, err)

		set, err := provider.KeyFunc(context.Background())
		require.NoError(t, err)

		_, found := set.LookupKeyID("issuer-key")
		assert.True(t, found)
	})

	t.Run("it requires an issuer URL", func(t *testing.T) {
		_, err := NewProvider()
		assert.ErrorContains(t, err, "issuer URL is required")
	})
}

func TestCachingProvider(t *testing.T) {
	t.Run("it fetches the key set only once within the TTL", func(t *testing.T) {
		issuer := newTestIssuer(t)

		provider, err := NewCachingProvider(WithIssuerURL(issuer.url(t)))
		require.NoError(t, err)
		assert.Equal(t, DefaultCacheTTL, provider.CacheTTL)

		for i := 0; i < 5; i++ {
			_, err := provider.KeyFunc(context.Background())
			require.NoError(t, err)
		}

		assert.Equal(t, int32(1), atomic.LoadInt32(&issuer.fetchCount))
	})

	t.Run("it refetches after the TTL expires", func(t *testing.T) {
		issuer := newTestIssuer(t)

		provider, err := NewCachingProvider(WithIssuerURL(issuer.url(t)))
		require.NoError(t, err)
		provider.CacheTTL = time.Nanosecond

		_, err = provider.KeyFunc(context.Background())
		require.NoError(t, err)

		time.Sleep(time.Millisecond)

		_, err = provider.KeyFunc(context.Background())
		require.NoError(t, err)

		assert.Equal(t, int32(2), atomic.LoadInt32(&issuer.fetchCount))
	})
}
