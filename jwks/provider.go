// Package jwks fetches an issuer's JSON Web Key Set for use with the
// JWXParser. The validation core never touches the network; key
// discovery stays out here with the caller.
package jwks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/oidcrp/go-idtoken-validation/internal/oidc"
)

// Provider handles getting the JWKS for an issuer and exposes KeyFunc,
// whose result feeds idtokenvalidation.JWXParser. Most callers will
// want the CachingProvider instead, which avoids refetching the key set
// on every request.
type Provider struct {
	IssuerURL     *url.URL // Required.
	CustomJWKSURI *url.URL // Optional, skips discovery.
	Client        *http.Client
}

// NewProvider builds and returns a new *Provider.
func NewProvider(opts ...ProviderOption) (*Provider, error) {
	p := &Provider{
		Client: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.IssuerURL == nil && p.CustomJWKSURI == nil {
		return nil, fmt.Errorf("issuer URL is required (use WithIssuerURL)")
	}

	return p, nil
}

// KeyFunc fetches and returns the issuer's key set. When no custom JWKS
// URI is configured the location is discovered from the issuer's
// well-known configuration document.
func (p *Provider) KeyFunc(ctx context.Context) (jwk.Set, error) {
	jwksURI := p.CustomJWKSURI
	if jwksURI == nil {
		wkEndpoints, err := oidc.GetWellKnownEndpointsFromIssuerURL(ctx, p.Client, *p.IssuerURL)
		if err != nil {
			return nil, err
		}

		jwksURI, err = url.Parse(wkEndpoints.JWKSURI)
		if err != nil {
			return nil, fmt.Errorf("could not parse JWKS URI from well known endpoints: %w", err)
		}
	}

	set, err := jwk.Fetch(ctx, jwksURI.String(), jwk.WithHTTPClient(p.Client))
	if err != nil {
		return nil, fmt.Errorf("could not fetch JWKS: %w", err)
	}

	return set, nil
}

// CachingProvider wraps a Provider with a time-based cache so that the
// key set is refetched at most once per TTL.
type CachingProvider struct {
	*Provider
	CacheTTL time.Duration

	mu        sync.RWMutex
	cached    jwk.Set
	expiresAt time.Time
}

// DefaultCacheTTL applies when WithCacheTTL is not given.
const DefaultCacheTTL = 15 * time.Minute

// NewCachingProvider builds and returns a new *CachingProvider.
func NewCachingProvider(opts ...ProviderOption) (*CachingProvider, error) {
	provider, err := NewProvider(opts...)
	if err != nil {
		return nil, err
	}

	return &CachingProvider{
		Provider: provider,
		CacheTTL: DefaultCacheTTL,
	}, nil
}

// KeyFunc returns the cached key set, refetching it when the cache has
// expired. Concurrent callers during a refresh serialize on the write
// lock; only one of them fetches.
func (c *CachingProvider) KeyFunc(ctx context.Context) (jwk.Set, error) {
	c.mu.RLock()
	if c.cached != nil && time.Now().Before(c.expiresAt) {
		defer c.mu.RUnlock()
		return c.cached, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Now().Before(c.expiresAt) {
		return c.cached, nil
	}

	set, err := c.Provider.KeyFunc(ctx)
	if err != nil {
		return nil, err
	}

	c.cached = set
	c.expiresAt = time.Now().Add(c.CacheTTL)
	return set, nil
}
