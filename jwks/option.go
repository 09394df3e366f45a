package jwks

import (
	"net/http"
	"net/url"
)

// ProviderOption is how options for the Provider are set up.
type ProviderOption func(*Provider)

// WithIssuerURL sets the issuer whose well-known configuration is used
// to discover the JWKS URI.
func WithIssuerURL(u *url.URL) ProviderOption {
	return func(p *Provider) {
		p.IssuerURL = u
	}
}

// WithCustomJWKSURI sets a fixed JWKS URI, skipping discovery.
func WithCustomJWKSURI(u *url.URL) ProviderOption {
	return func(p *Provider) {
		p.CustomJWKSURI = u
	}
}

// WithCustomClient sets the HTTP client used for discovery and JWKS
// fetches.
func WithCustomClient(c *http.Client) ProviderOption {
	return func(p *Provider) {
		p.Client = c
	}
}
