package validator

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateNonce returns a fresh high-entropy nonce for an
// authentication request: two cryptographically random version-4 UUIDs
// in their canonical hyphenated form, concatenated with no separator.
// The result is opaque; callers store it and later pass it back as the
// expected nonce, never parsing its structure.
func GenerateNonce() string {
	return uuid.NewString() + uuid.NewString()
}

// ValidateNonce compares the token's nonce claim against the nonce the
// caller issued with the authentication request. The comparison is
// exact, case-sensitive ordinal equality with no normalization.
//
// A nil token or blank expectedNonce is a caller mistake and yields an
// *ArgumentError. An absent or blank nonce claim yields
// *InvalidNonceError with reason NonceMissing; an unequal claim yields
// reason NonceMismatch.
func ValidateNonce(token *DecodedToken, expectedNonce string) error {
	if token == nil {
		return &ArgumentError{Param: "token"}
	}
	if isBlank(expectedNonce) {
		return &ArgumentError{Param: "expectedNonce"}
	}

	if token.Claims.Nonce == nil || isBlank(*token.Claims.Nonce) {
		return &InvalidNonceError{
			Reason:   NonceMissing,
			Expected: expectedNonce,
			RawToken: token.Raw,
		}
	}

	if *token.Claims.Nonce != expectedNonce {
		return &InvalidNonceError{
			Reason:   NonceMismatch,
			Expected: expectedNonce,
			Actual:   *token.Claims.Nonce,
			RawToken: token.Raw,
		}
	}

	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
