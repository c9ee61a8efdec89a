package render

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/glog"
	"golang.org/x/term"
	"golang.org/x/time/rate"
)

// Stats describes progress within one call to Run.
type Stats struct {
	// Frames rendered by this Run, and in the database overall.
	Frames      uint64
	TotalFrames uint64

	Elapsed      time.Duration
	RaysPerFrame int
}

func (s Stats) FPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Elapsed.Seconds()
}

// RaysPerSecond counts primary rays only.
func (s Stats) RaysPerSecond() float64 {
	return s.FPS() * float64(s.RaysPerFrame)
}

func (s Stats) String() string {
	return fmt.Sprintf("frame %d (%d this run) %.2f fps %.0f rays/s", s.TotalFrames, s.Frames, s.FPS(), s.RaysPerSecond())
}

// StatsReporter prints Stats at most once per interval.  On a terminal it
// rewrites a single status line; otherwise it logs.
type StatsReporter struct {
	out     io.Writer
	tty     bool
	limiter *rate.Limiter
}

func NewStatsReporter(f *os.File, interval time.Duration) *StatsReporter {
	return &StatsReporter{
		out:     f,
		tty:     term.IsTerminal(int(f.Fd())),
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (r *StatsReporter) Report(s Stats) {
	if !r.limiter.Allow() {
		return
	}
	if r.tty {
		fmt.Fprintf(r.out, "\r\x1b[K%s", s)
		return
	}
	glog.Infof("%s", s)
}

// Done ends the status line, if one is being drawn.
func (r *StatsReporter) Done(s Stats) {
	if r.tty {
		fmt.Fprintf(r.out, "\r\x1b[K%s\n", s)
		return
	}
	glog.Infof("%s", s)
}
