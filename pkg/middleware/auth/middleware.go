package auth

import (
	"github.com/joeydtaylor/steeze-edge/pkg/edgeauth"
	"go.uber.org/zap"
)

// Middleware puts an edge gate in front of an http.Handler.
type Middleware struct {
	gate *edgeauth.Gate
	log  *zap.Logger
}

func New(g *edgeauth.Gate, log *zap.Logger) *Middleware {
	if log == nil {
		log = zap.NewNop()
	}
	return &Middleware{gate: g, log: log}
}
