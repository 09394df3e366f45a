/*
Package validator implements the relying-party checks an OpenID Connect
ID Token must pass before its claims are trusted.

The package operates on a DecodedToken: a token that an upstream JOSE
parser has already deserialized and whose signature has already been
verified. It is the last gate before relying-party logic consumes the
claims, and it is deliberately narrow:

  - required-claims enforcement (aud, exp, iat, iss, sub)
  - nonce replay binding against a caller-supplied expected nonce
  - c_hash binding of the token to an authorization code
  - generation of fresh high-entropy nonces

Every operation is a pure, synchronous function of its inputs. There is
no shared state, no network access, no key handling, and no caching, so
the package is safe for concurrent use without synchronization.

# Usage

	nonce := validator.GenerateNonce()
	// ... store nonce, send the authentication request, receive the
	// token and authorization code, parse and verify the signature ...

	err := validator.Validate(token, &validator.ValidationParameters{
	    Nonce:             nonce,
	    AuthorizationCode: code,
	})
	if err != nil {
	    // reject the token outright
	}

# Error Handling

Failures come in two tiers. An *ArgumentError reports a mistake in the
calling code (nil token, blank required parameter) and says nothing
about the token. Every other error is a protocol violation —
*MissingClaimError, *InvalidNonceError or *InvalidCHashError — and
matches ErrTokenInvalid via errors.Is. A token that produces any
protocol violation must be rejected; there is no recoverable sub-case.
*/
package validator
