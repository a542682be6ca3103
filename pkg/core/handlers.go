// core/handlers.go
package core

import (
	"io"
	"net/http"

	"github.com/joeydtaylor/steeze-edge/pkg/edgeauth"
	"go.uber.org/zap"
)

// maxEventBytes caps viewer-request bodies; edge events are small.
const maxEventBytes = 1 << 20

// DecisionHeader tells HTTP callers which way the gate went without them
// having to inspect the body.
const DecisionHeader = "X-Edge-Decision"

// viewerRequestHandler runs one gate invocation per POSTed event and replies
// with the forwarded request or the generated redirect.
func viewerRequestHandler(g *edgeauth.Gate, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest)
			return
		}

		out, d, err := g.HandleEvent(r.Context(), body)
		if err != nil {
			status := errorStatus(err)
			if status >= 500 {
				log.Error("viewer-request failed", zap.Error(err))
			}
			writeError(w, status)
			return
		}

		w.Header().Set(DecisionHeader, d.Action.String())
		writeJSON(w, out, http.StatusOK)
	}
}
