package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/joeydtaylor/steeze-edge/pkg/bundlefx"
	"github.com/joeydtaylor/steeze-edge/pkg/core"
	"github.com/joeydtaylor/steeze-edge/pkg/edgeauth"
	"github.com/joeydtaylor/steeze-edge/pkg/jwks"
	"github.com/joeydtaylor/steeze-edge/pkg/manifest"
	"github.com/joeydtaylor/steeze-edge/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-edge/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-edge/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Options allow per-deployment env keys/defaults.
type Options struct {
	Service       string // for logs only
	ConfigEnv     string // e.g. "EDGE_CONFIG"
	DefaultConfig string // e.g. "edge.toml"; skipped when absent
}

func DefaultOptions() Options {
	return Options{
		Service:       "steeze-edge",
		ConfigEnv:     "EDGE_CONFIG",
		DefaultConfig: "edge.toml",
	}
}

// ConfigPath resolves the config file: the env override if set, else the
// default when it exists, else "" (environment only).
func ConfigPath(o Options) string {
	if v := os.Getenv(o.ConfigEnv); v != "" {
		return v
	}
	if fileExists(o.DefaultConfig) {
		return o.DefaultConfig
	}
	return ""
}

// ---- Providers ----

func provideConfig(o Options, log *zap.Logger) (manifest.Config, error) {
	path := ConfigPath(o)
	cfg, err := core.LoadConfig(path)
	if err != nil {
		log.Error("config load failed", zap.String("path", path), zap.Error(err))
		return manifest.Config{}, err
	}
	log.Info("config loaded",
		zap.String("path", path),
		zap.String("issuer", cfg.IssuerURL()),
		zap.String("jwksUrl", cfg.JWKSURL()),
		zap.Duration("cacheTtl", cfg.CacheTTL()),
	)
	return cfg, nil
}

func provideCache(lc fx.Lifecycle, cfg manifest.Config, log *zap.Logger) (*jwks.Cache, error) {
	c, closeStore, err := NewCache(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return closeStore() }})
	return c, nil
}

func provideGate(cfg manifest.Config, c *jwks.Cache, log *zap.Logger) (*edgeauth.Gate, error) {
	return NewGate(cfg, c, log)
}

type routerDeps struct {
	fx.In

	Cfg     manifest.Config
	Gate    *edgeauth.Gate
	AuthMW  *auth.Middleware
	LogMW   *logger.Middleware
	Metrics http.Handler `name:"metrics"`
	R       httpx.Router
	Log     *zap.Logger
}

func provideRouter(d routerDeps) http.Handler {
	return core.BuildRouter(d.Cfg, core.BuildDeps{
		Gate:    d.Gate,
		Auth:    d.AuthMW,
		LogMW:   d.LogMW,
		Metrics: d.Metrics,
		Router:  d.R,
		Log:     d.Log,
	})
}

// ---- Server lifecycle ----

type serverDeps struct {
	fx.In
	Opts   Options
	Cfg    manifest.Config
	Logger *zap.Logger
	App    http.Handler `name:"app"`
}

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
}

func registerHooks(lc fx.Lifecycle, d serverDeps) {
	addr := d.Cfg.Server.ListenAddress
	cert, key := d.Cfg.Server.TLSCert, d.Cfg.Server.TLSKey
	srv := newServer(addr, d.App)
	useTLS := fileExists(cert) && fileExists(key)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if useTLS {
				d.Logger.Info("server starting (TLS)",
					zap.String("service", d.Opts.Service),
					zap.String("addr", addr),
					zap.String("cert", cert),
				)
				go func() {
					if err := srv.ListenAndServeTLS(cert, key); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
				return nil
			}

			d.Logger.Info("server starting (PLAINTEXT)",
				zap.String("service", d.Opts.Service),
				zap.String("addr", addr),
			)
			srv.TLSConfig = nil
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					d.Logger.Fatal("server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", d.Opts.Service))
			return srv.Shutdown(ctx)
		},
	})
}

// ---- Public Fx module ----

// Module wires configuration, the key-set cache, the gate and the HTTP
// server. The cache and gate are built once and shared by every request.
func Module(opts Options) fx.Option {
	return fx.Options(
		fx.Supply(opts),

		// logger, metrics, auth
		bundlefx.Module,

		fx.Provide(provideConfig),
		fx.Provide(provideCache),
		fx.Provide(provideGate),

		fx.Provide(httpx.NewChi),
		fx.Provide(
			fx.Annotate(
				provideRouter,
				fx.ResultTags(`name:"app"`),
			),
		),

		fx.Invoke(registerHooks),
	)
}

// ---- helpers ----

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
