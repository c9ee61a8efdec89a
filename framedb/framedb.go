// Package framedb accumulates rendered frames into a running average, and
// serializes the accumulation so a render can be resumed.
package framedb

import (
	"lumen/rgb"
)

// DB holds per-pixel color sums and sample counts.  Pixel (r, c) is at index
// r*Cols+c, with row 0 at the bottom of the image.
type DB struct {
	Rows, Cols int

	// Three channels per pixel.
	Sums   []float64
	Counts []uint32

	// Seed the render was started with, and the number of frames
	// accumulated so far.  Together they select the random stream for the
	// next frame.
	Seed   int64
	Frames uint64

	// Name of the scene being rendered, for humans.
	Scene string
}

func New(rows, cols int) *DB {
	db := &DB{}
	db.Resize(rows, cols)
	return db
}

// Resize discards all accumulated samples.
func (db *DB) Resize(rows, cols int) {
	db.Rows = rows
	db.Cols = cols
	db.Sums = make([]float64, 3*rows*cols)
	db.Counts = make([]uint32, rows*cols)
	db.Frames = 0
}

// AddFrame blends a full frame into the accumulation.  frame must hold
// Rows*Cols colors in the same order as the DB.
func (db *DB) AddFrame(frame []rgb.Color) {
	for i, c := range frame {
		db.Sums[3*i+0] += c.R
		db.Sums[3*i+1] += c.G
		db.Sums[3*i+2] += c.B
		db.Counts[i]++
	}
	db.Frames++
}

// Pixel is the mean of all samples recorded at (r, c).  It is black when no
// samples were recorded, and may exceed 1.
func (db *DB) Pixel(r, c int) rgb.Color {
	return db.pixel(r*db.Cols + c)
}

func (db *DB) pixel(i int) rgb.Color {
	n := db.Counts[i]
	if n == 0 {
		return rgb.Black
	}
	return rgb.Color{
		R: db.Sums[3*i+0],
		G: db.Sums[3*i+1],
		B: db.Sums[3*i+2],
	}.Div(float64(n))
}

// Resolve writes the mean of every pixel into dst, which must hold Rows*Cols
// colors.
func (db *DB) Resolve(dst []rgb.Color) {
	for i := range db.Counts {
		dst[i] = db.pixel(i)
	}
}

// MeanLuminance averages the luminance of every resolved pixel.
func (db *DB) MeanLuminance() float64 {
	if len(db.Counts) == 0 {
		return 0
	}
	sum := 0.0
	for i := range db.Counts {
		sum += db.pixel(i).Luminance()
	}
	return sum / float64(len(db.Counts))
}
