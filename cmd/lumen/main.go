// lumen renders a sphere scene progressively, averaging frame after frame
// into a checkpoint that can be resumed later.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"cloud.google.com/go/compute/metadata"
	"contrib.go.opencensus.io/exporter/stackdriver"
	cloudmetrics "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	cloudtrace "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	"github.com/golang/glog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"lumen/blobstore"
	"lumen/checkpoint"
	"lumen/framedb"
	"lumen/httpmetrics"
	"lumen/material"
	"lumen/preview"
	"lumen/render"
	"lumen/scene"
	"lumen/scenepack"
)

var (
	output    = flag.String("output", "lumen", "Name of the render.  The checkpoint and image are stored as <output>.framedb and <output>.png.")
	store     = flag.String("store", ".", "Where to keep the checkpoint and image: a directory, badger:<dir>, or gs://bucket/prefix.")
	rows      = flag.Int("rows", 400, "Output image rows")
	cols      = flag.Int("cols", 400, "Output image columns")
	frames    = flag.Int("frames", 0, "Number of frames to render.  0 renders until interrupted.")
	antialias = flag.Int("antialias", render.DefaultAntialias, "Supersampling factor; each pixel averages antialias^2 rays per frame")
	fov       = flag.Float64("fov", 0, "Horizontal field of view in degrees.  0 uses the scene's own.")
	seed      = flag.Int64("seed", 0, "Random seed for a new render.  0 picks one from the clock.")
	resume    = flag.Bool("resume", false, "Should we load the existing checkpoint and add more frames?")

	checkpointEvery = flag.Int("checkpoint-every", 100, "Save a checkpoint every this many frames.  0 saves only at exit.")

	scenePreset = flag.String("scene", scenepack.DefaultPreset, "Built-in scene to render")
	sky         = flag.String("sky", scenepack.DefaultSky, "Sky surrounding the built-in scene")
	sceneFile   = flag.String("scene-file", "", "YAML scene file to render instead of a built-in scene")
	maxBounces  = flag.Int("max-bounces", scene.DefaultMaxBounces, "Maximum path length")
	minDistance = flag.Float64("min-distance", scene.DefaultMinDistance, "Ignore intersections closer than this")
	diffuse     = flag.String("diffuse", material.UnitVectorInUnitSphere.String(), "Scatter sampling for matte surfaces")

	previewListen = flag.String("preview-listen", "", "Server address:port for the live preview.  Empty disables it.")

	monitoring           = flag.Bool("monitoring", false, "Enable monitoring?")
	monitoringProject    = flag.String("monitoring-project", "", "Override project used for monitoring integration.  If not specified, the project of the GCE instance is used.")
	monitoringTraceRatio = flag.Float64("monitoring-trace-ratio", 0.01, "What ratio of traces should be exported?")

	cpuprofile = flag.String("cpu-profile", "", "write cpu profile to `file`")
	memprofile = flag.String("mem-profile", "", "write memory profile to `file`")
)

func main() {
	flag.Parse()

	glog.CopyStandardLogTo("INFO")

	glog.Infof("flags:")
	flag.VisitAll(func(f *flag.Flag) {
		glog.Infof("%s: %q", f.Name, f.Value.String())
	})

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			glog.Fatalf("Could not create CPU profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			glog.Fatalf("Could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := do(); err != nil {
		glog.Fatalf("Error: %v", err)
	}

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			glog.Fatalf("Could not create memory profile: %v", err)
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			glog.Fatalf("Could not write memory profile: %v", err)
		}
	}

	glog.Flush()
}

func do() error {
	if err := checkRenderFlags(*rows, *cols, *antialias, *maxBounces, *minDistance); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *monitoring {
		shutdown, err := installMonitoring(ctx)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	p, err := loadScene()
	if err != nil {
		return err
	}
	glog.Infof("Rendering %s: %d spheres, camera %v", p.Name, p.Scene.Len(), p.Camera)

	hfov := p.FOV
	if *fov > 0 {
		hfov = *fov
	}
	r := render.New(p.Scene, p.Camera, *rows, *cols, render.WithAntialias(*antialias), render.WithFOV(hfov))

	st, err := blobstore.Open(ctx, *store)
	if err != nil {
		return err
	}
	defer st.Close()

	db, err := loadOrCreate(ctx, st, p.Name, r)
	if err != nil {
		return err
	}

	var srv *preview.Server
	if *previewListen != "" {
		srv = preview.New(p.Name)
	}

	reporter := render.NewStatsReporter(os.Stdout, time.Second)
	var last render.Stats

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Whatever ends the render ends the whole group.
		defer cancel()

		return r.Run(gctx, db, *frames, func(s render.Stats) {
			last = s
			reporter.Report(s)
			if srv != nil {
				srv.MaybePublish(db, s)
			}
			if *checkpointEvery > 0 && s.TotalFrames%uint64(*checkpointEvery) == 0 {
				if err := checkpoint.Save(gctx, st, *output, db); err != nil {
					glog.Errorf("Failed to save checkpoint at frame %d: %v", s.TotalFrames, err)
				}
			}
		})
	})

	g.Go(func() error {
		signalCh := make(chan os.Signal, 1)
		signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(signalCh)

		select {
		case sig := <-signalCh:
			glog.Infof("Got %v, finishing up", sig)
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	if srv != nil {
		metrics := httpmetrics.New(srv.Handler())
		if err := metrics.RegisterMetrics(); err != nil {
			return fmt.Errorf("while registering http metrics: %w", err)
		}

		previewServer := &http.Server{
			Addr:    *previewListen,
			Handler: metrics,

			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxHeaderBytes: 1 << 20,
		}

		g.Go(func() error {
			if err := previewServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("preview server died: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return previewServer.Shutdown(shutdownCtx)
		})
	}

	runErr := g.Wait()
	reporter.Done(last)

	// The run context is gone by now; saving must still happen.
	saveCtx := context.Background()
	if err := checkpoint.Save(saveCtx, st, *output, db); err != nil {
		return fmt.Errorf("while saving checkpoint: %w", err)
	}
	if err := checkpoint.SavePNG(saveCtx, st, *output, render.Image(db)); err != nil {
		return fmt.Errorf("while saving image: %w", err)
	}
	glog.Infof("Saved %s after %d frames", *output, db.Frames)

	return runErr
}

func checkRenderFlags(rows, cols, antialias, maxBounces int, minDistance float64) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("image size %dx%d must be positive", rows, cols)
	}
	if antialias < 1 {
		return fmt.Errorf("antialias factor %d must be at least 1", antialias)
	}
	if maxBounces < 1 {
		return fmt.Errorf("max bounces %d must be at least 1", maxBounces)
	}
	// A negative minimum would accept intersections behind the ray origin.
	if minDistance < 0 {
		return fmt.Errorf("min distance %v must not be negative", minDistance)
	}
	return nil
}

func loadScene() (*scenepack.Preset, error) {
	d, err := material.ParseDiffuseAlgo(*diffuse)
	if err != nil {
		return nil, err
	}

	opts := []scene.Option{
		scene.WithMaxBounces(*maxBounces),
		scene.WithMinDistance(*minDistance),
	}

	if *sceneFile != "" {
		return scenepack.LoadFile(*sceneFile, d, opts...)
	}
	return scenepack.Build(*scenePreset, *sky, d, opts...)
}

// loadOrCreate refuses to start over an existing checkpoint unless asked to
// resume, so hours of rendering are never silently discarded.
func loadOrCreate(ctx context.Context, st blobstore.Store, sceneName string, r *render.Renderer) (*framedb.DB, error) {
	db, found, err := checkpoint.Load(ctx, st, *output)
	if err != nil {
		return nil, fmt.Errorf("while looking for an existing checkpoint: %w", err)
	}

	if *resume {
		if !found {
			return nil, fmt.Errorf("resumption requested, but there is no checkpoint named %q", *output)
		}
		if db.Rows != r.Rows() || db.Cols != r.Cols() {
			return nil, fmt.Errorf("resumption requested, but the checkpoint is %dx%d, not %dx%d", db.Rows, db.Cols, r.Rows(), r.Cols())
		}
		if db.Scene != sceneName {
			glog.Warningf("Checkpoint was rendered from %q, continuing it with %q", db.Scene, sceneName)
		}
		glog.Infof("Resuming %s at frame %d", *output, db.Frames)
		return db, nil
	}

	if found {
		return nil, fmt.Errorf("resumption not requested, but checkpoint %q exists", *output)
	}

	db = framedb.New(r.Rows(), r.Cols())
	db.Seed = *seed
	if db.Seed == 0 {
		db.Seed = time.Now().UnixNano()
	}
	db.Scene = sceneName
	glog.Infof("Starting %s with seed %d", *output, db.Seed)
	return db, nil
}

// installMonitoring exports traces and metrics to Google Cloud.  The returned
// function flushes and stops the exporters.
func installMonitoring(ctx context.Context) (func(), error) {
	project := *monitoringProject
	if project == "" && metadata.OnGCE() {
		p, err := metadata.ProjectID()
		if err != nil {
			return nil, fmt.Errorf("while fetching project from metadata server: %w", err)
		}
		project = p
	}

	metricsOpts := []cloudmetrics.Option{}
	traceOpts := []cloudtrace.Option{}
	if project != "" {
		metricsOpts = append(metricsOpts, cloudmetrics.WithProjectID(project))
		traceOpts = append(traceOpts, cloudtrace.WithProjectID(project))
	}

	_, traceShutdown, err := cloudtrace.InstallNewPipeline(traceOpts, sdktrace.WithSampler(sdktrace.TraceIDRatioBased(*monitoringTraceRatio)))
	if err != nil {
		return nil, fmt.Errorf("while installing Cloud Trace OpenTelemetry trace pipeline: %w", err)
	}

	pusher, err := cloudmetrics.InstallNewPipeline(metricsOpts)
	if err != nil {
		traceShutdown()
		return nil, fmt.Errorf("while installing Cloud Metrics OpenTelemetry meter pipeline: %w", err)
	}

	// The preview server's request counts are OpenCensus views.
	exporter, err := stackdriver.NewExporter(stackdriver.Options{
		ProjectID:         project,
		MetricPrefix:      "lumen",
		ReportingInterval: 60 * time.Second,
	})
	if err != nil {
		pusher.Stop(ctx)
		traceShutdown()
		return nil, fmt.Errorf("while creating Stackdriver exporter: %w", err)
	}
	if err := exporter.StartMetricsExporter(); err != nil {
		pusher.Stop(ctx)
		traceShutdown()
		return nil, fmt.Errorf("while starting Stackdriver metrics exporter: %w", err)
	}

	return func() {
		exporter.Flush()
		exporter.StopMetricsExporter()
		pusher.Stop(context.Background())
		traceShutdown()
	}, nil
}
