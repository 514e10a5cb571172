package cognito

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a token was not accepted.
type ErrorKind string

const (
	KindAccessTokenMissing   ErrorKind = "access_token_missing"
	KindAccessTokenMalformed ErrorKind = "access_token_malformed"
	KindKeySetUnavailable    ErrorKind = "key_set_unavailable"
	KindSigningKeyNotFound   ErrorKind = "signing_key_not_found"
	KindSignatureInvalid     ErrorKind = "signature_invalid"
	KindClaimsInvalid        ErrorKind = "claims_invalid"
)

// ClaimsReason names the claim check that failed for KindClaimsInvalid.
type ClaimsReason string

const (
	ReasonExpired     ClaimsReason = "expired"
	ReasonNotYetValid ClaimsReason = "not_yet_valid"
	ReasonIssuer      ClaimsReason = "issuer"
	ReasonAudience    ClaimsReason = "audience"
	ReasonTokenUse    ClaimsReason = "token_use"
	ReasonMalformed   ClaimsReason = "malformed"
)

// Sentinels for errors.Is matching on kind alone.
var (
	ErrAccessTokenMissing   = &Error{Kind: KindAccessTokenMissing}
	ErrAccessTokenMalformed = &Error{Kind: KindAccessTokenMalformed}
	ErrKeySetUnavailable    = &Error{Kind: KindKeySetUnavailable}
	ErrSigningKeyNotFound   = &Error{Kind: KindSigningKeyNotFound}
	ErrSignatureInvalid     = &Error{Kind: KindSignatureInvalid}
	ErrClaimsInvalid        = &Error{Kind: KindClaimsInvalid}
)

// Error is a typed verification failure.
type Error struct {
	Kind   ErrorKind
	Reason ClaimsReason
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Reason != "" {
		msg += " (" + string(e.Reason) + ")"
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind, and on Reason too when the target carries one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// KindOf returns the kind of a verification error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func claimsError(reason ClaimsReason, err error) *Error {
	return &Error{Kind: KindClaimsInvalid, Reason: reason, Err: err}
}
