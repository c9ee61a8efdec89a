// Package healthz serves liveness and readiness probes.
package healthz

import "net/http"

type Handler struct {
	ready func() bool
}

// New returns a handler that always reports healthy.
func New() *Handler {
	return &Handler{}
}

// NewReadiness returns a handler that reports unavailable until ready
// returns true.
func NewReadiness(ready func() bool) *Handler {
	return &Handler{ready: ready}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil && !h.ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("503 Service Unavailable"))
		return
	}
	w.Write([]byte("200 OK"))
}
