package cognito

import (
	"context"
	"net/http"

	authmw "cruddur/pkg/platform/middleware/auth"
)

// ToMiddlewareClaims narrows a verified claim set to what the HTTP layer needs.
func ToMiddlewareClaims(claims *Claims) *authmw.JWTClaims {
	return &authmw.JWTClaims{
		Subject:  claims.Identity(),
		ClientID: claims.ClientID,
		JTI:      claims.JTI,
	}
}

// MiddlewareAdapter exposes a Verifier through the auth middleware interface.
type MiddlewareAdapter struct {
	verifier *Verifier
}

func NewMiddlewareAdapter(verifier *Verifier) *MiddlewareAdapter {
	return &MiddlewareAdapter{verifier: verifier}
}

func (a *MiddlewareAdapter) Authenticate(ctx context.Context, h http.Header) (*authmw.JWTClaims, error) {
	claims, err := a.verifier.VerifyRequest(ctx, h)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
