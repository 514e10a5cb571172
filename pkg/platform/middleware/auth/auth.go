package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"cruddur/pkg/requestcontext"
)

// TokenVerifier authenticates a request from its headers.
type TokenVerifier interface {
	Authenticate(ctx context.Context, h http.Header) (*JWTClaims, error)
}

// JWTClaims represents the claims the HTTP layer consumes.
type JWTClaims struct {
	Subject  string
	ClientID string
	JTI      string
}

// GetSubject retrieves the authenticated subject from the context, "" when anonymous.
func GetSubject(ctx context.Context) string {
	return requestcontext.Subject(ctx)
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

func withClaims(ctx context.Context, claims *JWTClaims) context.Context {
	ctx = requestcontext.WithSubject(ctx, claims.Subject)
	ctx = requestcontext.WithClientID(ctx, claims.ClientID)
	return ctx
}

// RequireAuth rejects requests without a verifiable access token with 401.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			claims, err := verifier.Authenticate(ctx, r.Header)
			if err != nil || claims.Subject == "" {
				logger.WarnContext(ctx, "unauthorized access",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing, invalid or expired access token")
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(ctx, claims)))
		})
	}
}

// OptionalAuth attaches the subject when the token verifies and otherwise lets
// the request through anonymously. Failures are never surfaced to the caller.
func OptionalAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			claims, err := verifier.Authenticate(ctx, r.Header)
			if err != nil || claims.Subject == "" {
				logger.DebugContext(ctx, "unauthenticated",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}
			logger.DebugContext(ctx, "authenticated",
				"subject", claims.Subject,
				"request_id", requestcontext.RequestID(ctx),
			)
			next.ServeHTTP(w, r.WithContext(withClaims(ctx, claims)))
		})
	}
}
