package core

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimd "github.com/go-chi/chi/v5/middleware"
	manifest "github.com/joeydtaylor/steeze-edge/pkg/manifest"
	hmetrics "github.com/joeydtaylor/steeze-edge/pkg/middleware/metrics"
	"go.uber.org/zap"
)

// ViewerRequestPath accepts raw viewer-request events.
const ViewerRequestPath = "/viewer-request"

func BuildRouter(cfg manifest.Config, d BuildDeps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware())
	}
	r.Use(hmetrics.Collect)

	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics)
	}

	if d.Gate != nil {
		h := withTimeout(viewerRequestHandler(d.Gate, log), cfg.InvocationTimeout())
		r.Post(ViewerRequestPath, h)
	}

	if dir := cfg.Server.OriginDir; dir != "" && d.Auth != nil {
		hmetrics.SetPathNormalizer(routePattern)
		origin := d.Auth.Middleware()(spaHandler(dir))
		r.Get("/*", origin)
		r.Handle(http.MethodHead, "/*", origin)
	}
	return r.Mux()
}

// routePattern labels requests by matched chi pattern so origin assets share
// one series.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
