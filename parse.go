package idtokenvalidation

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/oidcrp/go-idtoken-validation/validator"
)

// JWXParser returns a ParseToken that verifies the compact token's
// signature against the given key set and maps the result onto a
// validator.DecodedToken. Registered-claim time checks are left to the
// caller; the validator only cares about claim presence.
func JWXParser(keys jwk.Set) ParseToken {
	return func(_ context.Context, raw string) (*validator.DecodedToken, error) {
		parsed, err := jwt.Parse([]byte(raw), jwt.WithKeySet(keys), jwt.WithValidate(false))
		if err != nil {
			return nil, fmt.Errorf("could not parse the token: %w", err)
		}

		header, err := protectedHeader(raw)
		if err != nil {
			return nil, err
		}

		return decodedFromJWT(parsed, header, raw), nil
	}
}

// protectedHeader exposes the JOSE protected header parameters the
// validator reads, alg foremost.
func protectedHeader(raw string) (map[string]string, error) {
	msg, err := jws.Parse([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("could not parse the token envelope: %w", err)
	}

	header := map[string]string{}
	signatures := msg.Signatures()
	if len(signatures) == 0 {
		return header, nil
	}

	protected := signatures[0].ProtectedHeaders()
	if alg := protected.Algorithm(); alg != "" {
		header["alg"] = alg.String()
	}
	if kid := protected.KeyID(); kid != "" {
		header["kid"] = kid
	}
	if typ := protected.Type(); typ != "" {
		header["typ"] = typ
	}

	return header, nil
}

// decodedFromJWT maps a parsed jwx token onto the validator's typed
// claim structure, preserving the absent-vs-empty distinction the
// required-claims check depends on.
func decodedFromJWT(parsed jwt.Token, header map[string]string, raw string) *validator.DecodedToken {
	claims := validator.Claims{}

	if v, ok := parsed.Get(jwt.IssuerKey); ok {
		if iss, ok := v.(string); ok {
			claims.Issuer = &iss
		}
	}
	if v, ok := parsed.Get(jwt.SubjectKey); ok {
		if sub, ok := v.(string); ok {
			claims.Subject = &sub
		}
	}
	if v, ok := parsed.Get(jwt.AudienceKey); ok {
		if aud, ok := v.([]string); ok {
			claims.Audience = append([]string{}, aud...)
		}
	}
	if v, ok := parsed.Get(jwt.ExpirationKey); ok {
		if exp, ok := v.(time.Time); ok {
			sec := exp.Unix()
			claims.Expiry = &sec
		}
	}
	if v, ok := parsed.Get(jwt.IssuedAtKey); ok {
		if iat, ok := v.(time.Time); ok {
			sec := iat.Unix()
			claims.IssuedAt = &sec
		}
	}

	extra := map[string]interface{}{}
	for name, value := range parsed.PrivateClaims() {
		extra[name] = value
	}
	if v, ok := extra["nonce"]; ok {
		if nonce, ok := v.(string); ok {
			claims.Nonce = &nonce
		}
		delete(extra, "nonce")
	}
	claims.Extra = extra

	return &validator.DecodedToken{
		Header: header,
		Claims: claims,
		Raw:    raw,
	}
}
