// Package edgeauth decides, for each viewer request at the edge, whether to
// forward it untouched or send the caller to the identity provider's login.
//
// A Gate is built once per execution context and shared by every
// invocation in it; the key-set cache behind its verifier is the only
// state carried between invocations.
package edgeauth

import (
	"context"
	"errors"
	"time"

	"github.com/joeydtaylor/steeze-edge/pkg/middleware/metrics"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single invocation.
const DefaultTimeout = 5 * time.Second

// Decision reasons.
const (
	ReasonBypass       = "bypass"
	ReasonValid        = "valid_token"
	ReasonMissingToken = "missing_token"
	ReasonInvalidToken = "invalid_token"
)

type GateConfig struct {
	Issuer    string
	Audience  string
	KeySetURL string

	Bypass   BypassPolicy
	Redirect RedirectResponder
	// Timeout bounds Invoke; <= 0 selects DefaultTimeout.
	Timeout time.Duration

	Verifier  TokenVerifier
	Extractor TokenExtractor // nil selects NewCookieExtractor
	Logger    *zap.Logger
}

type Gate struct {
	cfg       GateConfig
	verifier  TokenVerifier
	extractor TokenExtractor
	log       *zap.Logger
}

func NewGate(cfg GateConfig) (*Gate, error) {
	if cfg.Verifier == nil {
		return nil, errors.New("edgeauth: gate requires a verifier")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	g := &Gate{
		cfg:       cfg,
		verifier:  cfg.Verifier,
		extractor: cfg.Extractor,
		log:       cfg.Logger,
	}
	if g.extractor == nil {
		g.extractor = NewCookieExtractor()
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	return g, nil
}

// Timeout is the per-invocation budget.
func (g *Gate) Timeout() time.Duration { return g.cfg.Timeout }

// Invoke runs Handle under the invocation timeout.
func (g *Gate) Invoke(ctx context.Context, req *Request) (*Decision, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()
	return g.Handle(ctx, req)
}

// Handle decides one request. Authentication outcomes are always a
// Decision; a non-nil error means the key set could not be fetched or
// parsed and no decision was reached.
func (g *Gate) Handle(ctx context.Context, req *Request) (*Decision, error) {
	if req == nil {
		return nil, ErrMalformedEvent
	}
	if g.cfg.Bypass.Exempt(req.URI) {
		metrics.GateDecision(metrics.OutcomeBypass)
		g.log.Debug("edge bypass", zap.String("uri", req.URI))
		return forward(req, ReasonBypass), nil
	}

	token, ok := g.extractor.Extract(req)
	if !ok {
		metrics.GateDecision(metrics.OutcomeRedirectMissing)
		g.log.Info("edge redirect", zap.String("uri", req.URI), zap.String("reason", ReasonMissingToken))
		return redirect(g.cfg.Redirect.Build(), ReasonMissingToken), nil
	}

	claims, err := g.verifier.Verify(ctx, token, g.cfg.KeySetURL, g.cfg.Issuer, g.cfg.Audience)
	if err != nil {
		if IsInfrastructure(err) {
			metrics.GateDecision(metrics.OutcomeError)
			g.log.Error("edge key set unavailable",
				zap.String("uri", req.URI),
				zap.String("jwksUrl", g.cfg.KeySetURL),
				zap.Error(err),
			)
			return nil, err
		}
		metrics.GateDecision(metrics.OutcomeRedirectInvalid)
		g.log.Info("edge redirect",
			zap.String("uri", req.URI),
			zap.String("reason", ReasonInvalidToken),
			zap.Error(err),
		)
		return redirect(g.cfg.Redirect.Build(), ReasonInvalidToken), nil
	}

	metrics.GateDecision(metrics.OutcomeForward)
	g.log.Debug("edge forward",
		zap.String("uri", req.URI),
		zap.String("sub", claims.Subject),
		zap.String("kid", claims.KeyID),
	)
	return forward(req, ReasonValid), nil
}

// HandleEvent decodes a raw viewer-request event, invokes the gate and
// encodes the result.
func (g *Gate) HandleEvent(ctx context.Context, event []byte) ([]byte, *Decision, error) {
	req, err := ParseEvent(event)
	if err != nil {
		return nil, nil, err
	}
	d, err := g.Invoke(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	out, err := d.MarshalJSON()
	if err != nil {
		return nil, nil, err
	}
	return out, d, nil
}
