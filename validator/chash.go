package validator

import (
	"crypto"
	_ "crypto/sha256" // links SHA-256 for the 256-bit JOSE algorithms
	_ "crypto/sha512" // links SHA-384 and SHA-512 for the rest
	"encoding/base64"
	"fmt"
	"hash"
)

// defaultSigningAlg applies when the token carries no alg header,
// matching the protocol's mandatory-to-implement signing algorithm.
const defaultSigningAlg = "RS256"

// chashDigests maps JOSE signing-algorithm names — and the local digest
// names an algorithm map may substitute for them — to the digest used
// for c_hash computation. An unknown name is an error, never a silent
// fallback.
var chashDigests = map[string]crypto.Hash{
	"HS256": crypto.SHA256,
	"RS256": crypto.SHA256,
	"ES256": crypto.SHA256,
	"PS256": crypto.SHA256,
	"HS384": crypto.SHA384,
	"RS384": crypto.SHA384,
	"ES384": crypto.SHA384,
	"PS384": crypto.SHA384,
	"HS512": crypto.SHA512,
	"RS512": crypto.SHA512,
	"ES512": crypto.SHA512,
	"PS512": crypto.SHA512,
	// EdDSA names no digest of its own; Ed25519 signs over SHA-512.
	"EdDSA": crypto.SHA512,

	// Local digest names accepted as algorithm-map targets.
	"SHA256":  crypto.SHA256,
	"SHA-256": crypto.SHA256,
	"SHA384":  crypto.SHA384,
	"SHA-384": crypto.SHA384,
	"SHA512":  crypto.SHA512,
	"SHA-512": crypto.SHA512,
}

// resolveCHashDigest returns a fresh digest instance for the given
// algorithm name. The instance is scoped to a single ValidateCHash
// call; nothing is cached across calls.
func resolveCHashDigest(alg string) (hash.Hash, error) {
	h, ok := chashDigests[alg]
	if !ok {
		return nil, fmt.Errorf("no digest registered for algorithm %q", alg)
	}
	if !h.Available() {
		return nil, fmt.Errorf("digest for algorithm %q is not linked into this binary", alg)
	}
	return h.New(), nil
}

// ValidateCHash verifies the c_hash claim binding the token to the
// authorization code it was issued alongside: the claim must equal the
// URL-safe base64 encoding, without padding, of the left-most half of
// the digest of the UTF-8 code bytes, where the digest is chosen by the
// token's alg header (RS256 when the header is absent).
//
// algorithmMap optionally remaps the alg header value to a locally
// resolvable digest name before resolution; entries only take effect
// when they match the token's algorithm exactly.
func ValidateCHash(token *DecodedToken, authorizationCode string, algorithmMap map[string]string) error {
	if token == nil {
		return &ArgumentError{Param: "token"}
	}
	if isBlank(authorizationCode) {
		return &ArgumentError{Param: "authorizationCode"}
	}

	claimed, present, isString := token.Claims.GetString("c_hash")
	switch {
	case !present:
		return &InvalidCHashError{Reason: CHashMissingClaim, RawToken: token.Raw}
	case !isString:
		return &InvalidCHashError{Reason: CHashWrongType, RawToken: token.Raw}
	case isBlank(claimed):
		return &InvalidCHashError{Reason: CHashBlank, RawToken: token.Raw}
	}

	alg := token.Header["alg"]
	if alg == "" {
		alg = defaultSigningAlg
	}
	if mapped, ok := algorithmMap[alg]; ok {
		alg = mapped
	}

	h, err := resolveCHashDigest(alg)
	if err != nil {
		return &InvalidCHashError{
			Reason:    CHashAlgorithmUnavailable,
			Algorithm: alg,
			RawToken:  token.Raw,
			Cause:     err,
		}
	}

	h.Write([]byte(authorizationCode))
	digest := h.Sum(nil)

	// Left-most half of the digest, truncating toward zero on odd
	// lengths, encoded without padding.
	expected := base64.RawURLEncoding.EncodeToString(digest[:len(digest)/2])

	if expected != claimed {
		return &InvalidCHashError{
			Reason:    CHashMismatch,
			Algorithm: alg,
			Expected:  expected,
			Actual:    claimed,
			RawToken:  token.Raw,
		}
	}

	return nil
}
