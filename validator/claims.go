package validator

// DecodedToken is an ID Token after the upstream JOSE parser has
// deserialized it and verified its signature. The validator only reads
// it; it is never mutated or re-serialized.
//
// The parser contract matters: registered claims use pointers (and a
// nil-vs-empty slice for aud) so that an absent claim is
// distinguishable from a present-but-empty one.
type DecodedToken struct {
	// Header holds the protected JOSE header parameters by name. The
	// validator only reads "alg".
	Header map[string]string

	// Claims is the token payload.
	Claims Claims

	// Raw is the original compact-encoded token, used only in
	// diagnostic messages.
	Raw string
}

// Claims is the payload of a decoded ID Token.
type Claims struct {
	Issuer  *string `json:"iss,omitempty"`
	Subject *string `json:"sub,omitempty"`

	// Audience is nil when the claim is absent and empty when the claim
	// is present with no members.
	Audience []string `json:"aud,omitempty"`

	// Expiry and IssuedAt are Unix timestamps in seconds.
	Expiry   *int64 `json:"exp,omitempty"`
	IssuedAt *int64 `json:"iat,omitempty"`

	Nonce *string `json:"nonce,omitempty"`

	// Extra holds any additional claims by name, c_hash among them.
	Extra map[string]interface{} `json:"-"`
}

// Get returns the named additional claim and whether it is present.
func (c Claims) Get(name string) (interface{}, bool) {
	v, ok := c.Extra[name]
	return v, ok
}

// GetString returns the named additional claim as a string. The second
// result reports presence; the third reports whether the value is a
// string.
func (c Claims) GetString(name string) (value string, present, isString bool) {
	v, ok := c.Extra[name]
	if !ok {
		return "", false, false
	}
	s, ok := v.(string)
	return s, true, ok
}

// checkRequiredClaims enforces the protocol-mandated claim set in a
// fixed order, failing on the first violation. The order is observable
// behavior: aud absence before aud emptiness, then exp, iat, iss, sub.
func checkRequiredClaims(token *DecodedToken) error {
	switch {
	case token.Claims.Audience == nil:
		return &MissingClaimError{Claim: "aud", Variant: ClaimAbsent, RawToken: token.Raw}
	case len(token.Claims.Audience) == 0:
		return &MissingClaimError{Claim: "aud", Variant: ClaimEmpty, RawToken: token.Raw}
	case token.Claims.Expiry == nil:
		return &MissingClaimError{Claim: "exp", Variant: ClaimAbsent, RawToken: token.Raw}
	case token.Claims.IssuedAt == nil:
		return &MissingClaimError{Claim: "iat", Variant: ClaimAbsent, RawToken: token.Raw}
	case token.Claims.Issuer == nil:
		return &MissingClaimError{Claim: "iss", Variant: ClaimAbsent, RawToken: token.Raw}
	case token.Claims.Subject == nil:
		return &MissingClaimError{Claim: "sub", Variant: ClaimAbsent, RawToken: token.Raw}
	}
	return nil
}
