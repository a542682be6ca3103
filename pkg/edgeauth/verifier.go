package edgeauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joeydtaylor/steeze-edge/pkg/jwks"
	"github.com/joeydtaylor/steeze-edge/pkg/middleware/metrics"
)

// KeySource returns the key set published at a URL. *jwks.Cache satisfies it.
type KeySource interface {
	Get(ctx context.Context, url string) (jwks.KeySet, error)
}

// TokenVerifier checks a token against the keys at sourceURL.
type TokenVerifier interface {
	Verify(ctx context.Context, token, sourceURL, issuer, audience string) (*Claims, error)
}

// Claims are the verified claims the gate cares about. They live only for
// the duration of one invocation.
type Claims struct {
	Issuer    string
	Audience  []string
	Subject   string
	ExpiresAt time.Time
	KeyID     string
}

// Verifier validates RS256 tokens against keys resolved by kid.
type Verifier struct {
	keys KeySource
	now  func() time.Time
}

var _ TokenVerifier = (*Verifier)(nil)

// NewVerifier returns a verifier reading keys from src. A nil now uses
// time.Now.
func NewVerifier(src KeySource, now func() time.Time) *Verifier {
	if now == nil {
		now = time.Now
	}
	return &Verifier{keys: src, now: now}
}

// Verify checks signature, issuer, audience and expiry. Any rejection is
// reported as ErrVerification; key-set fetch and parse failures are
// returned unchanged so callers can tell them apart.
func (v *Verifier) Verify(ctx context.Context, token, sourceURL, issuer, audience string) (*Claims, error) {
	start := time.Now()
	defer func() { metrics.ObserveVerify(time.Since(start)) }()

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)

	var (
		rc       jwt.RegisteredClaims
		kid      string
		infraErr error
	)
	tok, err := parser.ParseWithClaims(token, &rc, func(t *jwt.Token) (any, error) {
		kid, _ = t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token has no kid")
		}
		set, err := v.keys.Get(ctx, sourceURL)
		if err != nil {
			infraErr = err
			return nil, err
		}
		k, ok := set.Find(kid)
		if !ok {
			return nil, fmt.Errorf("no key for kid %q", kid)
		}
		return k.PublicKey()
	})
	if infraErr != nil {
		return nil, infraErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerification, err)
	}
	if !tok.Valid {
		return nil, ErrVerification
	}

	c := &Claims{
		Issuer:   rc.Issuer,
		Audience: rc.Audience,
		Subject:  rc.Subject,
		KeyID:    kid,
	}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}
