// bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/joeydtaylor/steeze-edge/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-edge/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-edge/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provides the system logger, access-log middleware, /metrics
// handler and the HTTP gate middleware. The gate itself must be provided
// alongside (serverfx does).
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
)
