package validator

import (
	"errors"
	"fmt"
)

// ErrTokenInvalid is the sentinel error that every protocol-violation
// error matches via errors.Is. A caller receiving an error that matches
// it must reject the token outright.
var ErrTokenInvalid = errors.New("id token invalid")

// ArgumentError reports a caller-contract violation: a nil token or a
// blank required parameter supplied by the calling code itself. It
// indicates a programming mistake, not an untrustworthy token, and
// deliberately does not match ErrTokenInvalid.
type ArgumentError struct {
	// Param is the name of the offending parameter.
	Param string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %q is required but was nil or blank", e.Param)
}

// Variants reported by MissingClaimError. An absent aud claim and a
// present-but-empty aud claim are distinct protocol violations.
const (
	ClaimAbsent = "absent"
	ClaimEmpty  = "empty"
)

// MissingClaimError is returned when a protocol-mandated claim is
// missing from the token payload.
type MissingClaimError struct {
	// Claim is the name of the missing claim (e.g. "aud", "exp").
	Claim string
	// Variant distinguishes ClaimAbsent from ClaimEmpty.
	Variant string
	// RawToken is the original compact encoding, for diagnostics.
	RawToken string
}

func (e *MissingClaimError) Error() string {
	return fmt.Sprintf("id token missing required claim %q (%s): %s", e.Claim, e.Variant, e.RawToken)
}

// Is allows the error to support equality to ErrTokenInvalid.
func (e *MissingClaimError) Is(target error) bool {
	return target == ErrTokenInvalid
}

// NonceFailure enumerates the ways nonce validation can fail.
type NonceFailure string

const (
	NonceMissing  NonceFailure = "missing"
	NonceMismatch NonceFailure = "mismatch"
)

// InvalidNonceError is returned when the token's nonce claim is absent,
// blank, or does not match the nonce issued with the authentication
// request.
type InvalidNonceError struct {
	Reason   NonceFailure
	Expected string
	Actual   string
	RawToken string
}

func (e *InvalidNonceError) Error() string {
	if e.Reason == NonceMismatch {
		return fmt.Sprintf("id token nonce mismatch: expected %q got %q: %s", e.Expected, e.Actual, e.RawToken)
	}
	return fmt.Sprintf("id token nonce %s: %s", e.Reason, e.RawToken)
}

// Is allows the error to support equality to ErrTokenInvalid.
func (e *InvalidNonceError) Is(target error) bool {
	return target == ErrTokenInvalid
}

// CHashFailure enumerates the ways c_hash validation can fail.
type CHashFailure string

const (
	CHashMissingClaim         CHashFailure = "missing claim"
	CHashWrongType            CHashFailure = "wrong type"
	CHashBlank                CHashFailure = "blank"
	CHashAlgorithmUnavailable CHashFailure = "algorithm unavailable"
	CHashMismatch             CHashFailure = "mismatch"
)

// InvalidCHashError is returned when the token's c_hash claim fails to
// bind the token to the authorization code.
type InvalidCHashError struct {
	Reason CHashFailure
	// Algorithm is the digest name the check resolved (possibly after
	// remapping), set for the algorithm-unavailable and mismatch reasons.
	Algorithm string
	Expected  string
	Actual    string
	RawToken  string
	// Cause holds the underlying resolution failure for the
	// algorithm-unavailable reason.
	Cause error
}

func (e *InvalidCHashError) Error() string {
	switch e.Reason {
	case CHashAlgorithmUnavailable:
		return fmt.Sprintf("id token c_hash algorithm %q unavailable: %v: %s", e.Algorithm, e.Cause, e.RawToken)
	case CHashMismatch:
		return fmt.Sprintf("id token c_hash mismatch (%s): expected %q got %q: %s", e.Algorithm, e.Expected, e.Actual, e.RawToken)
	default:
		return fmt.Sprintf("id token c_hash %s: %s", e.Reason, e.RawToken)
	}
}

// Is allows the error to support equality to ErrTokenInvalid.
func (e *InvalidCHashError) Is(target error) bool {
	return target == ErrTokenInvalid
}

// Unwrap exposes the underlying cause, if any, so callers can inspect
// digest-resolution failures with errors.Is and errors.As.
func (e *InvalidCHashError) Unwrap() error {
	return e.Cause
}
