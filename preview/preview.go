// Package preview serves the render in progress over HTTP.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"lumen/framedb"
	"lumen/healthz"
	"lumen/render"
)

const (
	DefaultMaxConcurrentEncodes = 2
	DefaultPublishInterval      = time.Second
)

// Server holds the most recently published snapshot.  The render loop
// publishes; HTTP handlers only read immutable snapshots.
type Server struct {
	name string

	mu    sync.Mutex
	img   *image.RGBA
	stats render.Stats

	maxConcurrentEncodes int64
	encodes              *semaphore.Weighted

	publishInterval time.Duration
	publishLimiter  *rate.Limiter

	mux *http.ServeMux
}

type Option func(*Server)

// WithMaxConcurrentEncodes bounds how many PNG encodes run at once.
func WithMaxConcurrentEncodes(n int64) Option {
	return func(s *Server) {
		s.maxConcurrentEncodes = n
	}
}

// WithPublishInterval sets how often MaybePublish takes a snapshot.
func WithPublishInterval(d time.Duration) Option {
	return func(s *Server) {
		s.publishInterval = d
	}
}

// New creates a server for the render called name.
func New(name string, opts ...Option) *Server {
	s := &Server{
		name:                 name,
		maxConcurrentEncodes: DefaultMaxConcurrentEncodes,
		publishInterval:      DefaultPublishInterval,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.encodes = semaphore.NewWeighted(s.maxConcurrentEncodes)
	s.publishLimiter = rate.NewLimiter(rate.Every(s.publishInterval), 1)

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/frame.png", s.serveFrame)
	s.mux.HandleFunc("/statusz", s.serveStatusz)
	s.mux.Handle("/healthz", healthz.New())
	s.mux.Handle("/readyz", healthz.NewReadiness(s.ready))
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Publish replaces the current snapshot.  img must not be modified
// afterwards.
func (s *Server) Publish(img *image.RGBA, stats render.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = img
	s.stats = stats
}

// MaybePublish snapshots db if the publish interval has passed since the last
// snapshot.  It must be called from the goroutine that owns db.
func (s *Server) MaybePublish(db *framedb.DB, stats render.Stats) bool {
	if !s.publishLimiter.Allow() {
		return false
	}
	s.Publish(render.Image(db), stats)
	return true
}

func (s *Server) snapshot() (*image.RGBA, render.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img, s.stats
}

func (s *Server) ready() bool {
	img, _ := s.snapshot()
	return img != nil
}

func (s *Server) serveFrame(w http.ResponseWriter, r *http.Request) {
	img, _ := s.snapshot()
	if img == nil {
		http.Error(w, "no frame rendered yet", http.StatusServiceUnavailable)
		return
	}

	if err := s.encodes.Acquire(r.Context(), 1); err != nil {
		http.Error(w, "gave up waiting to encode", http.StatusServiceUnavailable)
		return
	}
	defer s.encodes.Release(1)

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		glog.Errorf("Failed to encode preview: %v", err)
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (s *Server) serveStatusz(w http.ResponseWriter, r *http.Request) {
	img, stats := s.snapshot()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "scene: %s\n", s.name)
	if img == nil {
		fmt.Fprintf(w, "no frame rendered yet\n")
		return
	}
	b := img.Bounds()
	fmt.Fprintf(w, "size: %dx%d\n", b.Dx(), b.Dy())
	fmt.Fprintf(w, "frames: %d\n", stats.TotalFrames)
	fmt.Fprintf(w, "frames this run: %d\n", stats.Frames)
	fmt.Fprintf(w, "elapsed: %v\n", stats.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "fps: %.3f\n", stats.FPS())
	fmt.Fprintf(w, "rays/s: %.0f\n", stats.RaysPerSecond())
}
