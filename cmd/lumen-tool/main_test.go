package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lumen/blobstore"
	"lumen/checkpoint"
	"lumen/framedb"
	"lumen/rgb"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmdRoot.SetOut(out)
	cmdRoot.SetErr(out)
	cmdRoot.SetArgs(args)
	err := cmdRoot.Execute()
	return out.String(), err
}

func TestPresets(t *testing.T) {
	out, err := run(t, "presets")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	for _, want := range []string{"* 7-spheres", "glass-inside", "* ambient-gray", "gradient-blue"} {
		if !strings.Contains(out, want) {
			t.Errorf("presets output missing %q:\n%s", want, out)
		}
	}
}

func TestAcceptsLogFlags(t *testing.T) {
	if _, err := run(t, "--v", "1", "presets"); err != nil {
		t.Fatalf("presets with glog flags: %v", err)
	}
	if got := cmdRoot.PersistentFlags().Lookup("v"); got == nil || got.Value.String() != "1" {
		t.Errorf("glog -v flag not bound through cobra: %v", got)
	}
	run(t, "--v", "0", "presets")
}

func TestInspectAndPNG(t *testing.T) {
	dir := t.TempDir()
	st, err := blobstore.NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	db := framedb.New(1, 2)
	db.Seed = 5
	db.Scene = "camera-test-1/none"
	db.AddFrame([]rgb.Color{rgb.White, rgb.Black})
	if err := checkpoint.Save(context.Background(), st, "r", db); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := run(t, "--store", dir, "inspect", "r")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"scene: camera-test-1/none", "size: 2x1", "frames: 1", "seed: 5", "mean luminance: 0.5000"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}

	pngPath := filepath.Join(t.TempDir(), "r.png")
	if _, err := run(t, "--store", dir, "png", "r", pngPath); err != nil {
		t.Fatalf("png: %v", err)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 1 {
		t.Errorf("Image size %v, want 2x1", b)
	}

	if _, err := run(t, "--store", dir, "inspect", "missing"); err == nil {
		t.Errorf("inspect of a missing checkpoint succeeded")
	}
}
