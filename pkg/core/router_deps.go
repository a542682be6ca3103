package core

import (
	"net/http"

	"github.com/joeydtaylor/steeze-edge/pkg/edgeauth"
	"github.com/joeydtaylor/steeze-edge/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-edge/pkg/middleware/logger"
	httpx "github.com/joeydtaylor/steeze-edge/pkg/transport/httpx"
	"go.uber.org/zap"
)

type BuildDeps struct {
	Gate    *edgeauth.Gate
	Auth    *auth.Middleware
	LogMW   *logger.Middleware
	Metrics http.Handler
	Router  httpx.Router
	Log     *zap.Logger
}
