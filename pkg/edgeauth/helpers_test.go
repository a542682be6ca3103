package edgeauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joeydtaylor/steeze-edge/pkg/jwks"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_TEST"
	testClientID = "client-123"
	testKID      = "kid-1"
)

var testRedirect = RedirectResponder{
	LoginURL:    "https://auth.example.com/login",
	ClientID:    testClientID,
	CallbackURL: "https://app.example.com/callback",
}

func genRSA(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	pk, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return pk
}

// jwksServer publishes pub under kid and counts requests.
type jwksServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newJWKSServer(t *testing.T, pub *rsa.PublicKey, kid string) *jwksServer {
	t.Helper()
	set := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
		{Key: pub, KeyID: kid, Algorithm: "RS256", Use: "sig"},
	}}
	body, err := json.Marshal(set)
	require.NoError(t, err)
	return newRawServer(t, http.StatusOK, body)
}

func newRawServer(t *testing.T, status int, body []byte) *jwksServer {
	t.Helper()
	s := &jwksServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *jwksServer) url() string { return s.URL + "/.well-known/jwks.json" }

func signToken(t *testing.T, pk *rsa.PrivateKey, kid string, claims jwt.Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	s, err := tok.SignedString(pk)
	require.NoError(t, err)
	return s
}

func validClaims(exp time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Audience:  jwt.ClaimStrings{testClientID},
		Subject:   "user-1",
		IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
}

func newTestVerifier(now func() time.Time) *Verifier {
	return NewVerifier(jwks.NewCache(jwks.NewHTTPFetcher(nil)), now)
}

// countingExtractor and countingVerifier record calls made by the gate.
type countingExtractor struct {
	inner TokenExtractor
	calls atomic.Int32
}

func (c *countingExtractor) Extract(req *Request) (string, bool) {
	c.calls.Add(1)
	return c.inner.Extract(req)
}

type countingVerifier struct {
	inner TokenVerifier
	calls atomic.Int32
}

func (c *countingVerifier) Verify(ctx context.Context, token, url, iss, aud string) (*Claims, error) {
	c.calls.Add(1)
	return c.inner.Verify(ctx, token, url, iss, aud)
}
