package serverfx

import (
	"context"
	"fmt"
	"time"

	"github.com/joeydtaylor/steeze-edge/pkg/edgeauth"
	"github.com/joeydtaylor/steeze-edge/pkg/jwks"
	"github.com/joeydtaylor/steeze-edge/pkg/jwks/redisstore"
	"github.com/joeydtaylor/steeze-edge/pkg/manifest"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewCache builds the key-set cache described by cfg. Entries always live in
// process memory; with a Redis address they are also shared through Redis.
// The returned func releases the store.
func NewCache(cfg manifest.Config, log *zap.Logger) (*jwks.Cache, func() error, error) {
	opts := []jwks.Option{
		jwks.WithTTL(cfg.CacheTTL()),
		jwks.WithMaxEntries(cfg.Cache.MaxEntries),
		jwks.WithFetchTimeout(cfg.InvocationTimeout()),
		jwks.WithSingleFlight(cfg.SingleFlight()),
		jwks.WithLogger(log.Named("jwks")),
	}
	closer := func() error { return nil }

	if addr := cfg.Cache.RedisAddr; addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", addr, err)
		}
		store, err := redisstore.New(redisstore.Config{Client: client, KeyPrefix: cfg.Cache.RedisPrefix})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		opts = append(opts, jwks.WithStore(store))
		closer = store.Close
		log.Info("jwks cache using redis", zap.String("addr", addr))
	}

	return jwks.NewCache(jwks.NewHTTPFetcher(nil), opts...), closer, nil
}

// NewGate builds the gate for cfg on top of keys.
func NewGate(cfg manifest.Config, keys edgeauth.KeySource, log *zap.Logger) (*edgeauth.Gate, error) {
	return edgeauth.NewGate(edgeauth.GateConfig{
		Issuer:    cfg.IssuerURL(),
		Audience:  cfg.Provider.ClientID,
		KeySetURL: cfg.JWKSURL(),
		Bypass: edgeauth.BypassPolicy{
			CallbackPath: cfg.Gate.CallbackPath,
			LogoutPath:   cfg.Gate.LogoutPath,
			APIPrefix:    cfg.Gate.APIPrefix,
		},
		Redirect: edgeauth.RedirectResponder{
			LoginURL:    cfg.LoginURL(),
			ClientID:    cfg.Provider.ClientID,
			CallbackURL: cfg.Provider.CallbackURL,
		},
		Timeout:  cfg.InvocationTimeout(),
		Verifier: edgeauth.NewVerifier(keys, nil),
		Logger:   log.Named("gate"),
	})
}
