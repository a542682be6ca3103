package jwks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func serveJWKS(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher_OK(t *testing.T) {
	_, doc := genRSA(t, "kid-a")
	srv := serveJWKS(t, http.StatusOK, doc)

	set, err := NewHTTPFetcher(srv.Client()).Fetch(context.Background(), srv.URL+"/.well-known/jwks.json")
	require.NoError(t, err)
	_, ok := set.Find("kid-a")
	require.True(t, ok)
}

func TestHTTPFetcher_MalformedPayloadIsParseError(t *testing.T) {
	srv := serveJWKS(t, http.StatusOK, []byte("invalid json"))

	_, err := NewHTTPFetcher(srv.Client()).Fetch(context.Background(), srv.URL)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, srv.URL, pe.URL)

	var fe *FetchError
	require.False(t, errors.As(err, &fe))
}

func TestHTTPFetcher_BadStatusIsFetchError(t *testing.T) {
	srv := serveJWKS(t, http.StatusInternalServerError, []byte(`{"keys":[]}`))

	_, err := NewHTTPFetcher(srv.Client()).Fetch(context.Background(), srv.URL)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, http.StatusInternalServerError, fe.StatusCode)
}

func TestHTTPFetcher_NetworkErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPFetcher(nil).Fetch(context.Background(), url)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Zero(t, fe.StatusCode)
	require.Error(t, fe.Unwrap())
}

func TestHTTPFetcher_ContextDeadline(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() { close(block); srv.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHTTPFetcher(srv.Client()).Fetch(ctx, srv.URL)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.ErrorIs(t, err, context.Canceled)
}
