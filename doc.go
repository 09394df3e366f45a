/*
Package idtokenvalidation provides HTTP middleware that validates the
OpenID Connect ID Token delivered to a relying party's redirect
endpoint.

The middleware extracts the compact-encoded token from the request,
hands it to a ParseToken function for deserialization and signature
verification (JWXParser supplies a default built on lestrrat-go/jwx),
and then runs the validator package's protocol checks: required claims,
nonce replay binding, and c_hash binding of the token to the
authorization code carried by the same request.

	keys, _ := provider.KeyFunc(ctx)

	mw := idtokenvalidation.New(
	    idtokenvalidation.WithParseToken(idtokenvalidation.JWXParser(keys)),
	    idtokenvalidation.WithNonceExtractor(idtokenvalidation.CookieValueExtractor("oidc_nonce")),
	)

	http.Handle("/callback", mw.CheckIDToken(callbackHandler))

On success the decoded token is stored in the request context and can
be retrieved with TokenFromContext. On failure the configured
ErrorHandler is invoked; the default answers 400 when the token is
missing, 401 when validation fails, and 500 for anything else.

Adapters for gin, echo and gRPC live under framework/. Key discovery
for the default parser lives in the jwks package.
*/
package idtokenvalidation
