package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubVerifier struct {
	claims *JWTClaims
	err    error
	calls  int
}

func (s *stubVerifier) Authenticate(context.Context, http.Header) (*JWTClaims, error) {
	s.calls++
	return s.claims, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func subjectEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, GetSubject(r.Context()))
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("rejects failed verification with 401", func(t *testing.T) {
		v := &stubVerifier{err: errors.New("access_token_missing")}
		rec := httptest.NewRecorder()
		RequireAuth(v, discardLogger())(subjectEcho()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"unauthorized","error_description":"Missing, invalid or expired access token"}`, rec.Body.String())
	})

	t.Run("passes subject through on success", func(t *testing.T) {
		v := &stubVerifier{claims: &JWTClaims{Subject: "andrewbrown", ClientID: "client"}}
		rec := httptest.NewRecorder()
		RequireAuth(v, discardLogger())(subjectEcho()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "andrewbrown", rec.Body.String())
	})

	t.Run("rejects claims without subject", func(t *testing.T) {
		v := &stubVerifier{claims: &JWTClaims{}}
		rec := httptest.NewRecorder()
		RequireAuth(v, discardLogger())(subjectEcho()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Run("degrades to anonymous on failure", func(t *testing.T) {
		v := &stubVerifier{err: errors.New("signature_invalid")}
		rec := httptest.NewRecorder()
		OptionalAuth(v, discardLogger())(subjectEcho()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, 1, v.calls)
	})

	t.Run("attaches subject on success", func(t *testing.T) {
		v := &stubVerifier{claims: &JWTClaims{Subject: "andrewbrown"}}
		rec := httptest.NewRecorder()
		OptionalAuth(v, discardLogger())(subjectEcho()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "andrewbrown", rec.Body.String())
	})
}
