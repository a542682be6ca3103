package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/joeydtaylor/steeze-edge/pkg/edgeauth"
	"go.uber.org/zap"
)

type ctxKey struct{}

// Middleware runs the gate on every request. Forwarded requests reach next
// untouched; redirects are written as-is; key-set failures become 502.
func (m *Middleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, err := m.gate.Invoke(r.Context(), RequestFromHTTP(r))
			if err != nil {
				m.log.Error("edge gate failed", zap.String("uri", r.URL.Path), zap.Error(err))
				status := http.StatusBadGateway
				if errors.Is(err, edgeauth.ErrMalformedEvent) {
					status = http.StatusBadRequest
				}
				http.Error(w, http.StatusText(status), status)
				return
			}

			if d.Action == edgeauth.Redirect {
				WriteResponse(w, d.Response)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, d.Reason)))
		})
	}
}

// Reason reports why the gate let the request through ("bypass" or
// "valid_token"), or "" when the gate did not run.
func Reason(ctx context.Context) string {
	s, _ := ctx.Value(ctxKey{}).(string)
	return s
}

// RequestFromHTTP presents r to the gate: its path and cookie headers.
func RequestFromHTTP(r *http.Request) *edgeauth.Request {
	return edgeauth.NewRequest(r.URL.Path, r.Header.Values("Cookie")...)
}

// WriteResponse writes a gate-generated response.
func WriteResponse(w http.ResponseWriter, res *edgeauth.Response) {
	for _, entries := range res.Headers {
		for _, e := range entries {
			w.Header().Add(e.Key, e.Value)
		}
	}
	status := res.StatusCode()
	if status == 0 {
		status = http.StatusFound
	}
	w.WriteHeader(status)
}
