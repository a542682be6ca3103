package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChiRouter(t *testing.T) {
	r := NewChi()
	var order []string
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			order = append(order, "mw")
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/viewer-request", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "post")
		w.WriteHeader(http.StatusAccepted)
	}))
	r.Get("/*", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/viewer-request", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, []string{"mw", "post"}, order)

	rec = httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deep/client/route", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/viewer-request", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
