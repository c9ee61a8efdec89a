package main

import (
	"testing"

	"lumen/render"
	"lumen/scene"
)

func TestCheckRenderFlags(t *testing.T) {
	testCases := []struct {
		desc        string
		rows, cols  int
		antialias   int
		maxBounces  int
		minDistance float64
		wantErr     bool
	}{
		{
			desc:        "defaults",
			rows:        400,
			cols:        400,
			antialias:   render.DefaultAntialias,
			maxBounces:  scene.DefaultMaxBounces,
			minDistance: scene.DefaultMinDistance,
		},
		{
			desc:        "zero min distance",
			rows:        1,
			cols:        1,
			antialias:   1,
			maxBounces:  1,
			minDistance: 0,
		},
		{
			desc:        "zero rows",
			rows:        0,
			cols:        400,
			antialias:   1,
			maxBounces:  20,
			minDistance: 0.001,
			wantErr:     true,
		},
		{
			desc:        "zero antialias",
			rows:        400,
			cols:        400,
			antialias:   0,
			maxBounces:  20,
			minDistance: 0.001,
			wantErr:     true,
		},
		{
			desc:        "zero max bounces",
			rows:        400,
			cols:        400,
			antialias:   2,
			maxBounces:  0,
			minDistance: 0.001,
			wantErr:     true,
		},
		{
			desc:        "negative min distance",
			rows:        400,
			cols:        400,
			antialias:   2,
			maxBounces:  20,
			minDistance: -0.5,
			wantErr:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			err := checkRenderFlags(tc.rows, tc.cols, tc.antialias, tc.maxBounces, tc.minDistance)
			if (err != nil) != tc.wantErr {
				t.Errorf("checkRenderFlags() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
