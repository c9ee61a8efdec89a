// Package httpmetrics counts and logs the requests an http.Handler serves.
package httpmetrics

import (
	"net/http"
	"strconv"

	"github.com/golang/glog"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	keyPath   = tag.MustNewKey("path")
	keyMethod = tag.MustNewKey("method")
	keyCode   = tag.MustNewKey("code")
)

type Wrapper struct {
	requestCount     *stats.Int64Measure
	requestCountView *view.View

	inner http.Handler
}

func New(inner http.Handler) *Wrapper {
	r := &Wrapper{}

	r.requestCount = stats.Int64("lumen/preview/requests", "", stats.UnitDimensionless)
	r.requestCountView = &view.View{
		Name:        "lumen/preview/requests",
		Description: "Counter of requests that have been handled",

		TagKeys: []tag.Key{keyPath, keyMethod, keyCode},

		Measure:     r.requestCount,
		Aggregation: view.Count(),
	}

	r.inner = inner

	return r
}

func (h *Wrapper) RegisterMetrics() error {
	return view.Register(h.requestCountView)
}

func (h *Wrapper) UnregisterMetrics() {
	view.Unregister(h.requestCountView)
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Wrapper) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
	h.inner.ServeHTTP(rec, r)

	glog.V(1).Infof("Served method=%s path=%q code=%d remoteaddr=%q", r.Method, r.URL.Path, rec.code, r.RemoteAddr)

	stats.RecordWithOptions(
		r.Context(),
		stats.WithTags(
			tag.Insert(keyPath, r.URL.Path),
			tag.Insert(keyMethod, r.Method),
			tag.Insert(keyCode, strconv.Itoa(rec.code)),
		),
		stats.WithMeasurements(h.requestCount.M(1)))
}
