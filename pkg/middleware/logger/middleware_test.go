package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMiddleware_LogsOneLinePerRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetAccessLogger(zap.New(core))

	h := (&Middleware{}).Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "https://login.example.com/login")
		w.WriteHeader(http.StatusFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	req.Header.Set("Cookie", "id_token=secret")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	require.Equal(t, "/app", fields["uri"])
	require.EqualValues(t, http.StatusFound, fields["status"])
	require.Equal(t, true, fields["hasCookie"])
	require.Equal(t, "https://login.example.com/login", fields["location"])
	for _, v := range fields {
		require.NotEqual(t, "id_token=secret", v)
	}
}

func TestMiddleware_SkipPaths(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetAccessLogger(zap.New(core))
	AddSkipPaths(" /healthz ", "")

	h := (&Middleware{}).Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for _, p := range []string{"/ping", "/metrics", "/healthz"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	require.Zero(t, logs.Len())
}

func TestNewLogWith_NoDir(t *testing.T) {
	l := NewLogWith("test.log", Options{Level: zapcore.DebugLevel})
	require.NotNil(t, l)
	require.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("LOG_DIR", "")
	t.Setenv("LOG_LEVEL", "warn")
	o := OptionsFromEnv()
	require.Empty(t, o.Dir)
	require.Equal(t, zapcore.WarnLevel, o.Level)
}
