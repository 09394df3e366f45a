package validator

// ValidationParameters carries the caller-side binding material for a
// single Validate call. Blank fields disable the corresponding check
// entirely; the check is skipped, not evaluated and ignored.
type ValidationParameters struct {
	// Nonce is the value the caller issued with the authentication
	// request. Blank skips nonce validation.
	Nonce string

	// AuthorizationCode is the code returned alongside the token. Blank
	// skips c_hash validation.
	AuthorizationCode string

	// AlgorithmMap optionally remaps the token's alg header value to a
	// locally resolvable digest name for c_hash computation.
	AlgorithmMap map[string]string
}

// Validate runs the full ID Token check sequence: the required-claims
// check unconditionally, then nonce validation when params.Nonce is
// non-blank, then c_hash validation when params.AuthorizationCode is
// non-blank. The order is fixed and the first failure is returned
// immediately; there is no partial validation.
func Validate(token *DecodedToken, params *ValidationParameters) error {
	if token == nil {
		return &ArgumentError{Param: "token"}
	}
	if params == nil {
		return &ArgumentError{Param: "params"}
	}

	if err := checkRequiredClaims(token); err != nil {
		return err
	}

	if !isBlank(params.Nonce) {
		if err := ValidateNonce(token, params.Nonce); err != nil {
			return err
		}
	}

	if !isBlank(params.AuthorizationCode) {
		if err := ValidateCHash(token, params.AuthorizationCode, params.AlgorithmMap); err != nil {
			return err
		}
	}

	return nil
}
