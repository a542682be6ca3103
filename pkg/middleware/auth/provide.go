package auth

import (
	"github.com/joeydtaylor/steeze-edge/pkg/edgeauth"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProvideAuthentication wraps the process-wide gate for HTTP use.
func ProvideAuthentication(g *edgeauth.Gate, log *zap.Logger) *Middleware {
	return New(g, log.Named("auth"))
}

var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)
