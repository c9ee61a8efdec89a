package preview

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lumen/framedb"
	"lumen/render"
	"lumen/rgb"
)

func get(t *testing.T, h http.Handler, path string) *http.Response {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	return rec.Result()
}

func TestBeforeFirstFrame(t *testing.T) {
	s := New("empty")
	h := s.Handler()

	if resp := get(t, h, "/frame.png"); resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("/frame.png before publish: got %d, want 503", resp.StatusCode)
	}
	if resp := get(t, h, "/readyz"); resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("/readyz before publish: got %d, want 503", resp.StatusCode)
	}
	if resp := get(t, h, "/healthz"); resp.StatusCode != http.StatusOK {
		t.Errorf("/healthz: got %d, want 200", resp.StatusCode)
	}
}

func TestFrameAndStatus(t *testing.T) {
	s := New("7-spheres/ambient-gray")
	h := s.Handler()

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(2, 1, color.RGBA{1, 2, 3, 255})
	s.Publish(img, render.Stats{Frames: 4, TotalFrames: 10, Elapsed: 2 * time.Second, RaysPerFrame: 24})

	resp := get(t, h, "/frame.png")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/frame.png: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	decoded, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("Decoded size %v, want 3x2", b)
	}

	resp = get(t, h, "/statusz")
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"scene: 7-spheres/ambient-gray", "size: 3x2", "frames: 10", "fps: 2.000", "rays/s: 48"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("/statusz missing %q:\n%s", want, body)
		}
	}

	if resp := get(t, h, "/readyz"); resp.StatusCode != http.StatusOK {
		t.Errorf("/readyz after publish: got %d, want 200", resp.StatusCode)
	}
}

func TestEncodeLimit(t *testing.T) {
	s := New("busy", WithMaxConcurrentEncodes(1))
	s.Publish(image.NewRGBA(image.Rect(0, 0, 1, 1)), render.Stats{})

	// Hold the only encode slot; a request that gives up waiting fails.
	if err := s.encodes.Acquire(context.Background(), 1); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer s.encodes.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/frame.png", nil).WithContext(ctx))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Got %d with encodes exhausted, want 503", rec.Code)
	}
}

func TestMaybePublishThrottles(t *testing.T) {
	s := New("throttled", WithPublishInterval(time.Hour))
	db := framedb.New(1, 1)
	db.AddFrame([]rgb.Color{rgb.White})

	if !s.MaybePublish(db, render.Stats{Frames: 1}) {
		t.Fatalf("First MaybePublish was throttled")
	}
	if s.MaybePublish(db, render.Stats{Frames: 2}) {
		t.Errorf("Second MaybePublish within the interval was not throttled")
	}

	img, stats := s.snapshot()
	if stats.Frames != 1 {
		t.Errorf("Snapshot stats frames = %d, want 1", stats.Frames)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("Snapshot pixel = %v, want white", got)
	}
}
