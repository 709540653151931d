// Package grid holds the decoded sample array shared by every stage of a render.
package grid

import (
	"errors"
	"fmt"
)

// ErrShape is returned when the sample count does not match the declared dimensions.
var ErrShape = errors.New("grid: sample count does not match width*height")

// Grid is a two dimensional image stored row-major: sample (x, y) lives at Samples[y*Width+x].
// A Grid is never modified once New has returned it, so it may be read from any number of
// goroutines.
type Grid struct {
	Width   int
	Height  int
	Samples []float32
}

// New checks the shape and wraps samples without copying them.
func New(width, height int, samples []float32) (*Grid, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative dimension %dx%d", ErrShape, width, height)
	}
	if len(samples) != width*height {
		return nil, fmt.Errorf("%w: %dx%d needs %d samples, got %d",
			ErrShape, width, height, width*height, len(samples))
	}
	return &Grid{Width: width, Height: height, Samples: samples}, nil
}

// Empty returns the grid produced when there is no data to show.
func Empty() *Grid {
	return &Grid{}
}

// Len is the number of samples.
func (g *Grid) Len() int { return len(g.Samples) }

// IsEmpty reports whether the grid has no samples to draw.
func (g *Grid) IsEmpty() bool { return g.Width == 0 || g.Height == 0 }

// At returns the sample in column x of row y, counting rows from the start of storage.
func (g *Grid) At(x, y int) float32 {
	return g.Samples[y*g.Width+x]
}

func (g *Grid) String() string {
	return fmt.Sprintf("%dx%d (%d samples)", g.Width, g.Height, len(g.Samples))
}
