package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"AWS_REGION", "USER_POOL_ID", "USER_POOL_CLIENT_ID", "COGNITO_DOMAIN", "CALLBACK_URL",
	"ISSUER_URL", "JWKS_URL", "LOGIN_URL", "CALLBACK_PATH", "LOGOUT_PATH", "API_PREFIX",
	"INVOCATION_TIMEOUT", "JWKS_CACHE_TTL", "JWKS_CACHE_MAX_ENTRIES", "JWKS_SINGLE_FLIGHT",
	"REDIS_ADDR", "REDIS_KEY_PREFIX", "SERVER_LISTEN_ADDRESS", "ORIGIN_DIR",
	"SSL_SERVER_CERTIFICATE", "SSL_SERVER_KEY",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
}

func setCognitoEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("USER_POOL_ID", "us-east-1_ABC")
	t.Setenv("USER_POOL_CLIENT_ID", "client-123")
	t.Setenv("COGNITO_DOMAIN", "myapp")
	t.Setenv("CALLBACK_URL", "https://app.example.com/callback")
}

func TestLoadConfig_EnvOnly(t *testing.T) {
	clearConfigEnv(t)
	setCognitoEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "client-123", cfg.Provider.ClientID)
	require.Equal(t, "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_ABC", cfg.IssuerURL())
	require.Equal(t, "https://myapp.auth.us-east-1.amazoncognito.com/login", cfg.LoginURL())
	require.Equal(t, 10*time.Minute, cfg.CacheTTL())
	require.Equal(t, 5*time.Second, cfg.InvocationTimeout())
	require.True(t, cfg.SingleFlight())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "edge.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[provider]
region = "eu-west-1"
user_pool_id = "eu-west-1_XYZ"
client_id = "from-file"
domain = "filedomain"
callback_url = "https://file.example.com/callback"

[gate]
api_prefix = "/backend/"
timeout = "3s"

[cache]
ttl = "1m"
max_entries = 2
single_flight = false

[server]
listen_address = ":9000"
`), 0o600))

	t.Setenv("USER_POOL_CLIENT_ID", "from-env")
	t.Setenv("JWKS_CACHE_TTL", "30s")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Provider.ClientID)
	require.Equal(t, "eu-west-1", cfg.Provider.Region)
	require.Equal(t, "/backend/", cfg.Gate.APIPrefix)
	require.Equal(t, "/callback", cfg.Gate.CallbackPath)
	require.Equal(t, 3*time.Second, cfg.InvocationTimeout())
	require.Equal(t, 30*time.Second, cfg.CacheTTL())
	require.Equal(t, 2, cfg.Cache.MaxEntries)
	require.False(t, cfg.SingleFlight())
	require.Equal(t, ":9000", cfg.Server.ListenAddress)
}

func TestLoadConfig_Errors(t *testing.T) {
	clearConfigEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[provider\n"), 0o600))
	_, err = LoadConfig(bad)
	require.Error(t, err)

	// nothing configured
	_, err = LoadConfig("")
	require.Error(t, err)

	setCognitoEnv(t)
	t.Setenv("JWKS_SINGLE_FLIGHT", "maybe")
	_, err = LoadConfig("")
	require.Error(t, err)

	t.Setenv("JWKS_SINGLE_FLIGHT", "false")
	t.Setenv("JWKS_CACHE_MAX_ENTRIES", "many")
	_, err = LoadConfig("")
	require.Error(t, err)
}
