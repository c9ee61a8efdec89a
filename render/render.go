// Package render turns a scene into frames and accumulates them.
package render

import (
	"context"
	"fmt"
	"image"
	"math/rand"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	"go.opentelemetry.io/otel/trace"

	"lumen/camera"
	"lumen/framedb"
	"lumen/ray"
	"lumen/rgb"
	"lumen/sampling"
	"lumen/scene"
)

const (
	DefaultAntialias = 2
	DefaultFOV       = 40
)

// Renderer draws frames of one scene from one viewpoint.  It is not safe for
// concurrent use.
type Renderer struct {
	scene  *scene.Scene
	center ray.Ray

	rows, cols int
	antialias  int
	hfov       float64

	camera *camera.Camera

	// Supersampled frame, reused between frames.
	samples []rgb.Color

	framesCounter metric.Int64Counter
	raysCounter   metric.Int64Counter
}

type Option func(*Renderer)

// WithAntialias sets the supersampling factor.  Each output pixel averages
// factor*factor primary rays.
func WithAntialias(factor int) Option {
	return func(r *Renderer) {
		r.antialias = factor
	}
}

// WithFOV sets the horizontal field of view, in degrees.
func WithFOV(degrees float64) Option {
	return func(r *Renderer) {
		r.hfov = degrees
	}
}

// New creates a renderer producing rows x cols frames.  center.Slope must be
// unit length.
func New(sc *scene.Scene, center ray.Ray, rows, cols int, opts ...Option) *Renderer {
	r := &Renderer{
		scene:     sc,
		center:    center,
		rows:      rows,
		cols:      cols,
		antialias: DefaultAntialias,
		hfov:      DefaultFOV,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.antialias < 1 {
		r.antialias = 1
	}

	r.camera = camera.New(center, r.hfov, r.rows*r.antialias, r.cols*r.antialias)
	r.samples = make([]rgb.Color, r.rows*r.antialias*r.cols*r.antialias)

	meter := metric.Must(global.Meter("lumen/render"))
	r.framesCounter = meter.NewInt64Counter("lumen/frames", metric.WithDescription("Frames accumulated"))
	r.raysCounter = meter.NewInt64Counter("lumen/primary_rays", metric.WithDescription("Primary rays traced"))

	return r
}

func (r *Renderer) Rows() int {
	return r.rows
}

func (r *Renderer) Cols() int {
	return r.cols
}

// RaysPerFrame is the number of primary rays traced for one frame.
func (r *Renderer) RaysPerFrame() int {
	return len(r.samples)
}

// RenderFrame traces one frame into dst, which must hold Rows*Cols colors.
// Row 0 is the bottom of the image.  Pixels whose primary ray hits nothing
// are black.
//
// ctx is checked between rows; a cancelled frame leaves dst unspecified.
func (r *Renderer) RenderFrame(ctx context.Context, dst []rgb.Color, rng *rand.Rand) error {
	ssRows := r.rows * r.antialias
	ssCols := r.cols * r.antialias

	f := r.camera.FrameInit(ssRows, ssCols, rng)

	for v := 0; v < f.Rows(); v++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for u := 0; u < f.Cols(); u++ {
			rc := ray.Context{}
			color, ok := r.scene.Trace(&rc, f.Ray(u, v), rng)
			if !ok {
				color = rgb.Black
			}
			r.samples[v*f.Cols()+u] = color
		}
	}

	Antialias(r.samples, dst, r.rows, r.cols, r.antialias)
	return nil
}

// Antialias box-filters src, a (dstRows*factor) x (dstCols*factor) image,
// into dst.
func Antialias(src, dst []rgb.Color, dstRows, dstCols, factor int) {
	srcCols := dstCols * factor
	norm := float64(factor * factor)

	for v := 0; v < dstRows; v++ {
		for u := 0; u < dstCols; u++ {
			sum := rgb.Color{}
			for sv := v * factor; sv < (v+1)*factor; sv++ {
				for su := u * factor; su < (u+1)*factor; su++ {
					sum = sum.Add(src[sv*srcCols+su])
				}
			}
			dst[v*dstCols+u] = sum.Div(norm)
		}
	}
}

// Step renders one frame and blends it into db.  The frame's random stream is
// chosen by db.Seed and db.Frames, so a resumed render continues exactly where
// it left off.
func (r *Renderer) Step(ctx context.Context, db *framedb.DB) error {
	tracer := otel.Tracer("lumen/render")
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Renderer.Step")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("frame", int64(db.Frames)),
		attribute.Int("rows", r.rows),
		attribute.Int("cols", r.cols),
	)

	if db.Rows != r.rows || db.Cols != r.cols {
		err := fmt.Errorf("frame database is %dx%d, renderer is %dx%d", db.Rows, db.Cols, r.rows, r.cols)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	frame := make([]rgb.Color, r.rows*r.cols)
	rng := sampling.Stream(db.Seed, db.Frames)
	if err := r.RenderFrame(ctx, frame, rng); err != nil {
		err := fmt.Errorf("while rendering frame %d: %w", db.Frames, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	db.AddFrame(frame)

	r.framesCounter.Add(ctx, 1)
	r.raysCounter.Add(ctx, int64(r.RaysPerFrame()))

	span.SetStatus(codes.Ok, "")
	return nil
}

// Image converts db's current average for display.  Image row 0 is the top.
func Image(db *framedb.DB) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, db.Cols, db.Rows))
	for y := 0; y < db.Rows; y++ {
		for x := 0; x < db.Cols; x++ {
			img.SetRGBA(x, y, db.Pixel(db.Rows-1-y, x).RGBA8())
		}
	}
	return img
}
