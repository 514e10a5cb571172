package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/require"
)

// UserPool imitates a Cognito user pool: it publishes a JWKS document over
// HTTP and mints RS256 access tokens with the matching private key.
type UserPool struct {
	Server   *httptest.Server
	Issuer   string
	ClientID string
	kid      string
	key      *rsa.PrivateKey
}

// NewUserPool starts a JWKS server that lives until the test ends.
func NewUserPool(t *testing.T, clientID string) *UserPool {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pub, err := jwk.FromRaw(&key.PublicKey)
	require.NoError(t, err)
	require.NoError(t, pub.Set(jwk.KeyIDKey, "test-kid"))
	require.NoError(t, pub.Set(jwk.AlgorithmKey, "RS256"))
	set := jwk.NewSet()
	require.NoError(t, set.AddKey(pub))
	doc, err := json.Marshal(set)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(doc)
	}))
	t.Cleanup(srv.Close)

	return &UserPool{
		Server:   srv,
		Issuer:   srv.URL + "/ca-central-1_TestPool",
		ClientID: clientID,
		kid:      "test-kid",
		key:      key,
	}
}

// JWKSURL is where the pool publishes its signing keys.
func (p *UserPool) JWKSURL() string {
	return p.Server.URL + "/.well-known/jwks.json"
}

// AccessToken mints a valid access token for username, expiring after ttl.
func (p *UserPool) AccessToken(t *testing.T, username string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	return p.Sign(t, jwt.MapClaims{
		"sub":       fmt.Sprintf("sub-%s", username),
		"username":  username,
		"client_id": p.ClientID,
		"iss":       p.Issuer,
		"token_use": "access",
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	})
}

// Sign signs arbitrary claims with the pool's key.
func (p *UserPool) Sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = p.kid
	signed, err := tok.SignedString(p.key)
	require.NoError(t, err)
	return signed
}
