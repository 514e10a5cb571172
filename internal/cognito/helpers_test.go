package cognito

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://cognito-idp.ca-central-1.amazonaws.com/ca-central-1_TestPool"
	testClientID = "5b6ro31g97urk767adrbrdj1g5"
)

type signingKey struct {
	kid  string
	priv *rsa.PrivateKey
}

func newSigningKey(t *testing.T, kid string) signingKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return signingKey{kid: kid, priv: priv}
}

// jwksServer serves a mutable key set and counts requests.
type jwksServer struct {
	*httptest.Server
	hits   atomic.Int32
	mu     sync.Mutex
	keys   []signingKey
	status int
	body   []byte
	delay  time.Duration
}

func newJWKSServer(t *testing.T, keys ...signingKey) *jwksServer {
	t.Helper()
	s := &jwksServer{keys: keys, status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.mu.Lock()
		delay, status, body := s.delay, s.status, s.body
		keys := append([]signingKey(nil), s.keys...)
		s.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if body != nil {
			_, _ = w.Write(body)
			return
		}
		_, _ = w.Write(encodeKeySet(t, keys...))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *jwksServer) setKeys(keys ...signingKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = keys
}

func (s *jwksServer) setStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func (s *jwksServer) setBody(body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body = body
}

func (s *jwksServer) setDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

func encodeKeySet(t *testing.T, keys ...signingKey) []byte {
	t.Helper()
	set := jwk.NewSet()
	for _, k := range keys {
		pub, err := jwk.FromRaw(&k.priv.PublicKey)
		require.NoError(t, err)
		require.NoError(t, pub.Set(jwk.KeyIDKey, k.kid))
		require.NoError(t, set.AddKey(pub))
	}
	raw, err := json.Marshal(set)
	require.NoError(t, err)
	return raw
}

// accessClaims returns a valid Cognito access token payload.
func accessClaims(now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":       "c3e0a6e4-7c8b-4f1d-9a57-2a1d7f5b9e01",
		"username":  "andrewbrown",
		"client_id": testClientID,
		"iss":       testIssuer,
		"token_use": "access",
		"scope":     "aws.cognito.signin.user.admin",
		"jti":       "0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0",
		"iat":       now.Add(-time.Minute).Unix(),
		"auth_time": now.Add(-time.Minute).Unix(),
		"exp":       now.Add(time.Hour).Unix(),
	}
}

func signToken(t *testing.T, key signingKey, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = key.kid
	signed, err := tok.SignedString(key.priv)
	require.NoError(t, err)
	return signed
}

func newTestCache(t *testing.T, url string) *KeySetCache {
	t.Helper()
	cache, err := NewKeySetCache(KeySetConfig{URL: url, TTL: time.Hour})
	require.NoError(t, err)
	return cache
}

func newTestVerifier(t *testing.T, keys KeySource) *Verifier {
	t.Helper()
	v, err := NewVerifier(VerifierConfig{Issuer: testIssuer, ClientID: testClientID}, keys)
	require.NoError(t, err)
	return v
}
