package core

import (
	"errors"
	"net/http"

	"github.com/joeydtaylor/steeze-edge/pkg/codec"
	"github.com/joeydtaylor/steeze-edge/pkg/edgeauth"
)

func writeJSON(w http.ResponseWriter, payload []byte, status int) {
	w.Header().Set("Content-Type", codec.JSON.ContentType())
	w.WriteHeader(status)
	if len(payload) > 0 {
		_, _ = w.Write(payload)
		return
	}
	_, _ = w.Write([]byte(`{}`))
}

// errorStatus maps gate errors to HTTP statuses. Bodies stay generic.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, edgeauth.ErrMalformedEvent):
		return http.StatusBadRequest
	case edgeauth.IsInfrastructure(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int) {
	writeJSON(w, []byte(`{"error":"`+http.StatusText(status)+`"}`), status)
}
