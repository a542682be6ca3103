package manifest

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config is the top-level gate configuration. It is read from an optional
// TOML file and overlaid with environment variables (see core.LoadConfig).
type Config struct {
	Provider Provider `toml:"provider"`
	Gate     Gate     `toml:"gate"`
	Cache    Cache    `toml:"cache"`
	Server   Server   `toml:"server"`
}

// Provider describes the identity provider. The three URLs are derived from
// Region, UserPoolID and Domain unless set explicitly.
type Provider struct {
	Region      string `toml:"region"`
	UserPoolID  string `toml:"user_pool_id"`
	ClientID    string `toml:"client_id"`
	Domain      string `toml:"domain"`
	CallbackURL string `toml:"callback_url"`

	IssuerURL string `toml:"issuer_url"`
	JWKSURL   string `toml:"jwks_url"`
	LoginURL  string `toml:"login_url"`
}

type Gate struct {
	CallbackPath string `toml:"callback_path"`
	LogoutPath   string `toml:"logout_path"`
	APIPrefix    string `toml:"api_prefix"`
	Timeout      string `toml:"timeout"` // Go duration, e.g. "5s"
}

type Cache struct {
	TTL          string `toml:"ttl"` // Go duration, e.g. "10m"
	MaxEntries   int    `toml:"max_entries"`
	SingleFlight *bool  `toml:"single_flight"`
	RedisAddr    string `toml:"redis_addr"`
	RedisPrefix  string `toml:"redis_prefix"`
}

type Server struct {
	ListenAddress string `toml:"listen_address"`
	OriginDir     string `toml:"origin_dir"`
	TLSCert       string `toml:"tls_cert"`
	TLSKey        string `toml:"tls_key"`
}

const (
	DefaultCallbackPath = "/callback"
	DefaultLogoutPath   = "/logout"
	DefaultAPIPrefix    = "/api/"
	DefaultTimeout      = "5s"
	DefaultCacheTTL     = "10m"
	DefaultMaxEntries   = 5
	DefaultListen       = ":4000"
)

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	setIfEmpty(&c.Gate.CallbackPath, DefaultCallbackPath)
	setIfEmpty(&c.Gate.LogoutPath, DefaultLogoutPath)
	setIfEmpty(&c.Gate.APIPrefix, DefaultAPIPrefix)
	setIfEmpty(&c.Gate.Timeout, DefaultTimeout)
	setIfEmpty(&c.Cache.TTL, DefaultCacheTTL)
	setIfEmpty(&c.Server.ListenAddress, DefaultListen)
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = DefaultMaxEntries
	}
	if c.Cache.SingleFlight == nil {
		on := true
		c.Cache.SingleFlight = &on
	}
}

// Validate checks that every value the gate needs is present and
// well-formed. Call ApplyDefaults first.
func (c *Config) Validate() error {
	p := c.Provider
	if strings.TrimSpace(p.ClientID) == "" {
		return errors.New("provider: client_id required")
	}
	if strings.TrimSpace(p.CallbackURL) == "" {
		return errors.New("provider: callback_url required")
	}
	if p.IssuerURL == "" || p.JWKSURL == "" {
		if p.Region == "" || p.UserPoolID == "" {
			return errors.New("provider: region and user_pool_id required unless issuer_url and jwks_url are set")
		}
	}
	if p.LoginURL == "" && (p.Region == "" || p.Domain == "") {
		return errors.New("provider: region and domain required unless login_url is set")
	}

	if !strings.HasPrefix(c.Gate.CallbackPath, "/") || !strings.HasPrefix(c.Gate.LogoutPath, "/") {
		return errors.New("gate: callback_path and logout_path must start with '/'")
	}
	if !strings.HasPrefix(c.Gate.APIPrefix, "/") {
		return errors.New("gate: api_prefix must start with '/'")
	}
	if _, err := positiveDuration(c.Gate.Timeout); err != nil {
		return fmt.Errorf("gate: timeout: %w", err)
	}

	if _, err := positiveDuration(c.Cache.TTL); err != nil {
		return fmt.Errorf("cache: ttl: %w", err)
	}
	if c.Cache.MaxEntries < 0 {
		return errors.New("cache: max_entries must be >= 0")
	}

	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return errors.New("server: tls_cert and tls_key must be set together")
	}
	return nil
}

// IssuerURL is the expected token issuer.
func (c Config) IssuerURL() string {
	if c.Provider.IssuerURL != "" {
		return c.Provider.IssuerURL
	}
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Provider.Region, c.Provider.UserPoolID)
}

// JWKSURL is where the signing keys are published.
func (c Config) JWKSURL() string {
	if c.Provider.JWKSURL != "" {
		return c.Provider.JWKSURL
	}
	return strings.TrimRight(c.IssuerURL(), "/") + "/.well-known/jwks.json"
}

// LoginURL is the hosted login endpoint callers are redirected to.
func (c Config) LoginURL() string {
	if c.Provider.LoginURL != "" {
		return c.Provider.LoginURL
	}
	return fmt.Sprintf("https://%s.auth.%s.amazoncognito.com/login", c.Provider.Domain, c.Provider.Region)
}

func (c Config) InvocationTimeout() time.Duration {
	d, _ := positiveDuration(c.Gate.Timeout)
	return d
}

func (c Config) CacheTTL() time.Duration {
	d, _ := positiveDuration(c.Cache.TTL)
	return d
}

func (c Config) SingleFlight() bool {
	return c.Cache.SingleFlight == nil || *c.Cache.SingleFlight
}

func positiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be > 0, got %s", s)
	}
	return d, nil
}

func setIfEmpty(dst *string, def string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = def
	}
}
