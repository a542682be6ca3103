// pkg/core/load.go
package core

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joeshaw/envdecode"
	manifest "github.com/joeydtaylor/steeze-edge/pkg/manifest"
	toml "github.com/pelletier/go-toml/v2"
)

// envConfig is the environment view of manifest.Config. Only variables that
// are set override the file.
type envConfig struct {
	Region      string `env:"AWS_REGION"`
	UserPoolID  string `env:"USER_POOL_ID"`
	ClientID    string `env:"USER_POOL_CLIENT_ID"`
	Domain      string `env:"COGNITO_DOMAIN"`
	CallbackURL string `env:"CALLBACK_URL"`
	IssuerURL   string `env:"ISSUER_URL"`
	JWKSURL     string `env:"JWKS_URL"`
	LoginURL    string `env:"LOGIN_URL"`

	CallbackPath string `env:"CALLBACK_PATH"`
	LogoutPath   string `env:"LOGOUT_PATH"`
	APIPrefix    string `env:"API_PREFIX"`
	Timeout      string `env:"INVOCATION_TIMEOUT"`

	CacheTTL     string `env:"JWKS_CACHE_TTL"`
	MaxEntries   string `env:"JWKS_CACHE_MAX_ENTRIES"`
	SingleFlight string `env:"JWKS_SINGLE_FLIGHT"`
	RedisAddr    string `env:"REDIS_ADDR"`
	RedisPrefix  string `env:"REDIS_KEY_PREFIX"`

	ListenAddress string `env:"SERVER_LISTEN_ADDRESS"`
	OriginDir     string `env:"ORIGIN_DIR"`
	TLSCert       string `env:"SSL_SERVER_CERTIFICATE"`
	TLSKey        string `env:"SSL_SERVER_KEY"`
}

// LoadConfig reads the TOML file at path (skipped when path is ""), overlays
// the environment, applies defaults and validates.
func LoadConfig(path string) (manifest.Config, error) {
	var cfg manifest.Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return manifest.Config{}, err
		}
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return manifest.Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := overlayEnv(&cfg); err != nil {
		return manifest.Config{}, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return manifest.Config{}, err
	}
	return cfg, nil
}

func overlayEnv(cfg *manifest.Config) error {
	var env envConfig
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("env: %w", err)
	}

	p := &cfg.Provider
	override(&p.Region, env.Region)
	override(&p.UserPoolID, env.UserPoolID)
	override(&p.ClientID, env.ClientID)
	override(&p.Domain, env.Domain)
	override(&p.CallbackURL, env.CallbackURL)
	override(&p.IssuerURL, env.IssuerURL)
	override(&p.JWKSURL, env.JWKSURL)
	override(&p.LoginURL, env.LoginURL)

	g := &cfg.Gate
	override(&g.CallbackPath, env.CallbackPath)
	override(&g.LogoutPath, env.LogoutPath)
	override(&g.APIPrefix, env.APIPrefix)
	override(&g.Timeout, env.Timeout)

	c := &cfg.Cache
	override(&c.TTL, env.CacheTTL)
	override(&c.RedisAddr, env.RedisAddr)
	override(&c.RedisPrefix, env.RedisPrefix)
	// decoded as strings so an unset variable can't clobber the file's value
	if env.MaxEntries != "" {
		n, err := strconv.Atoi(env.MaxEntries)
		if err != nil {
			return fmt.Errorf("env JWKS_CACHE_MAX_ENTRIES: %w", err)
		}
		c.MaxEntries = n
	}
	if env.SingleFlight != "" {
		on, err := strconv.ParseBool(env.SingleFlight)
		if err != nil {
			return fmt.Errorf("env JWKS_SINGLE_FLIGHT: %w", err)
		}
		c.SingleFlight = &on
	}

	s := &cfg.Server
	override(&s.ListenAddress, env.ListenAddress)
	override(&s.OriginDir, env.OriginDir)
	override(&s.TLSCert, env.TLSCert)
	override(&s.TLSKey, env.TLSKey)
	return nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
