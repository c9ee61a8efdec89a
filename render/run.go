package render

import (
	"context"
	"errors"
	"time"

	"lumen/framedb"
)

// Run calls Step until frames frames have been added, or until ctx is done
// when frames <= 0.  progress, if not nil, is called after every frame.
//
// Cancellation is a normal way to stop: the partial frame is dropped and Run
// returns nil.
func (r *Renderer) Run(ctx context.Context, db *framedb.DB, frames int, progress func(Stats)) error {
	stats := Stats{
		RaysPerFrame: r.RaysPerFrame(),
	}
	start := time.Now()

	for frames <= 0 || stats.Frames < uint64(frames) {
		if err := r.Step(ctx, db); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		stats.Frames++
		stats.TotalFrames = db.Frames
		stats.Elapsed = time.Since(start)
		if progress != nil {
			progress(stats)
		}
	}

	return nil
}
