// Package cognito verifies AWS Cognito user pool access tokens against the
// pool's published JSON Web Key Set.
package cognito

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"cruddur/internal/platform/metrics"
	"cruddur/pkg/requestcontext"
)

const tokenUseAccess = "access"

// KeySource supplies signing keys; *KeySetCache is the production implementation.
type KeySource interface {
	Get(ctx context.Context) (jwk.Set, error)
	Refresh(ctx context.Context) (jwk.Set, error)
}

// VerifierConfig holds the expected token issuer and app client.
type VerifierConfig struct {
	Issuer    string
	ClientID  string
	ClockSkew time.Duration
	Metrics   *metrics.Metrics
}

// Verifier checks access tokens. It is safe for concurrent use.
type Verifier struct {
	keys      KeySource
	issuer    string
	clientID  string
	clockSkew time.Duration
	metrics   *metrics.Metrics
	parser    *jwt.Parser
}

// NewVerifier builds a Verifier over keys.
func NewVerifier(cfg VerifierConfig, keys KeySource) (*Verifier, error) {
	if keys == nil {
		return nil, errors.New("key source is required")
	}
	if cfg.Issuer == "" || cfg.ClientID == "" {
		return nil, errors.New("issuer and client id are required")
	}
	return &Verifier{
		keys:      keys,
		issuer:    cfg.Issuer,
		clientID:  cfg.ClientID,
		clockSkew: cfg.ClockSkew,
		metrics:   cfg.Metrics,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// VerifyRequest extracts the bearer token from headers and verifies it.
func (v *Verifier) VerifyRequest(ctx context.Context, h http.Header) (*Claims, error) {
	token, err := ExtractAccessToken(h)
	if err != nil {
		v.metrics.RecordVerification(string(KindOf(err)))
		return nil, err
	}
	return v.Verify(ctx, token)
}

// Verify checks the token's signature and claims and returns the claim set.
func (v *Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	claims, err := v.verify(ctx, token)
	if err != nil {
		v.metrics.RecordVerification(string(KindOf(err)))
		return nil, err
	}
	v.metrics.RecordVerification("verified")
	return claims, nil
}

func (v *Verifier) verify(ctx context.Context, token string) (*Claims, error) {
	kid, err := v.headerKeyID(token)
	if err != nil {
		return nil, err
	}

	pub, err := v.locateKey(ctx, kid)
	if err != nil {
		return nil, err
	}

	mapClaims := jwt.MapClaims{}
	_, err = v.parser.ParseWithClaims(token, mapClaims, func(*jwt.Token) (any, error) {
		return pub, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, newError(KindAccessTokenMalformed, err)
		}
		return nil, newError(KindSignatureInvalid, err)
	}

	return v.checkClaims(requestcontext.Now(ctx), mapClaims)
}

// headerKeyID reads kid from the unverified header; alg is enforced later by the parser.
func (v *Verifier) headerKeyID(token string) (string, error) {
	parsed, _, err := v.parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", newError(KindAccessTokenMalformed, err)
	}
	if parsed.Method == nil || parsed.Method.Alg() != jwt.SigningMethodRS256.Alg() {
		return "", newError(KindSignatureInvalid, fmt.Errorf("unexpected signing method %v", parsed.Header["alg"]))
	}
	kid, _ := parsed.Header["kid"].(string)
	if kid == "" {
		return "", newError(KindSigningKeyNotFound, errors.New("token header has no kid"))
	}
	return kid, nil
}

// locateKey finds kid in the cached set, refreshing the set once on a miss.
func (v *Verifier) locateKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	set, err := v.keys.Get(ctx)
	if err != nil {
		return nil, err
	}
	key, ok := set.LookupKeyID(kid)
	if !ok {
		set, err = v.keys.Refresh(ctx)
		if err != nil {
			return nil, err
		}
		if key, ok = set.LookupKeyID(kid); !ok {
			return nil, newError(KindSigningKeyNotFound, fmt.Errorf("kid %q not in key set", kid))
		}
	}

	var raw any
	if err := key.Raw(&raw); err != nil {
		return nil, newError(KindSigningKeyNotFound, fmt.Errorf("decode key %q: %w", kid, err))
	}
	pub, ok := raw.(*rsa.PublicKey)
	if !ok {
		return nil, newError(KindSigningKeyNotFound, fmt.Errorf("key %q is not an RSA public key", kid))
	}
	return pub, nil
}

func (v *Verifier) checkClaims(now time.Time, mc jwt.MapClaims) (*Claims, error) {
	iss, err := mc.GetIssuer()
	if err != nil {
		return nil, claimsError(ReasonMalformed, err)
	}
	if iss != v.issuer {
		return nil, claimsError(ReasonIssuer, fmt.Errorf("issuer %q does not match", iss))
	}

	aud, err := mc.GetAudience()
	if err != nil {
		return nil, claimsError(ReasonMalformed, err)
	}
	clientID, _ := mc["client_id"].(string)
	if !v.clientMatches(clientID, aud) {
		return nil, claimsError(ReasonAudience, errors.New("token was not issued to this client"))
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return nil, claimsError(ReasonMalformed, err)
	}
	if exp == nil {
		return nil, claimsError(ReasonExpired, errors.New("token has no exp claim"))
	}
	if !now.Before(exp.Add(v.clockSkew)) {
		return nil, claimsError(ReasonExpired, fmt.Errorf("token expired at %s", exp.UTC().Format(time.RFC3339)))
	}

	nbf, err := mc.GetNotBefore()
	if err != nil {
		return nil, claimsError(ReasonMalformed, err)
	}
	if nbf != nil && now.Add(v.clockSkew).Before(nbf.Time) {
		return nil, claimsError(ReasonNotYetValid, fmt.Errorf("token not valid before %s", nbf.UTC().Format(time.RFC3339)))
	}

	tokenUse, _ := mc["token_use"].(string)
	if tokenUse != tokenUseAccess {
		return nil, claimsError(ReasonTokenUse, fmt.Errorf("token_use %q is not %q", tokenUse, tokenUseAccess))
	}

	return toClaims(mc, clientID, aud, exp, nbf), nil
}

// clientMatches accepts client_id (access tokens) and falls back to aud (id tokens
// carry the client there) only when client_id is absent.
func (v *Verifier) clientMatches(clientID string, aud jwt.ClaimStrings) bool {
	if clientID != "" {
		return clientID == v.clientID
	}
	for _, a := range aud {
		if a == v.clientID {
			return true
		}
	}
	return false
}

func toClaims(mc jwt.MapClaims, clientID string, aud jwt.ClaimStrings, exp, nbf *jwt.NumericDate) *Claims {
	c := &Claims{
		ClientID:  clientID,
		Audience:  append([]string(nil), aud...),
		ExpiresAt: exp.Time,
		Raw:       make(map[string]any, len(mc)),
	}
	c.Subject, _ = mc.GetSubject()
	c.Issuer, _ = mc.GetIssuer()
	c.Username, _ = mc["username"].(string)
	if c.Username == "" {
		c.Username, _ = mc["cognito:username"].(string)
	}
	c.TokenUse, _ = mc["token_use"].(string)
	c.Scope, _ = mc["scope"].(string)
	c.JTI, _ = mc["jti"].(string)
	if nbf != nil {
		c.NotBefore = nbf.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if c.ClientID == "" && len(aud) > 0 {
		c.ClientID = aud[0]
	}
	for k, val := range mc {
		c.Raw[k] = val
	}
	return c
}
