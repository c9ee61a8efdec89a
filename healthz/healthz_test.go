package healthz

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	New().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "200 OK" {
		t.Errorf("Got %d %q, want 200 \"200 OK\"", rec.Code, rec.Body.String())
	}
}

func TestReadiness(t *testing.T) {
	ready := false
	h := NewReadiness(func() bool { return ready })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Before ready: got %d, want 503", rec.Code)
	}

	ready = true
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("After ready: got %d, want 200", rec.Code)
	}
}
