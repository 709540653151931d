// Package render paints a normalized sample grid onto a fixed size canvas.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"runtime"

	"golang.org/x/sync/errgroup"

	"FITSrender/internal/grid"
	"FITSrender/internal/monitoring"
)

// Default canvas geometry.
const (
	DefaultCanvasWidth  = 1920
	DefaultCanvasHeight = 1080
	DefaultMarkRadius   = 1
)

// ErrOptions is returned by New for unusable options.
var ErrOptions = errors.New("render: invalid options")

// GrayMapper turns a raw sample into a gray level. *normalize.Normalizer satisfies it.
type GrayMapper interface {
	Normalize(v float32) uint8
}

// Options configures a Renderer.
type Options struct {
	CanvasWidth  int
	CanvasHeight int
	MarkRadius   int
	Workers      int // <= 0 means runtime.NumCPU()
}

// DefaultOptions returns a 1920x1080 canvas with radius 1 marks and one worker per CPU.
func DefaultOptions() Options {
	return Options{
		CanvasWidth:  DefaultCanvasWidth,
		CanvasHeight: DefaultCanvasHeight,
		MarkRadius:   DefaultMarkRadius,
		Workers:      runtime.NumCPU(),
	}
}

// Renderer draws one mark per sample.
type Renderer struct {
	opts Options
}

// New validates opts.
func New(opts Options) (*Renderer, error) {
	if opts.CanvasWidth <= 0 || opts.CanvasHeight <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", ErrOptions, opts.CanvasWidth, opts.CanvasHeight)
	}
	if opts.MarkRadius < 0 {
		return nil, fmt.Errorf("%w: mark radius %d", ErrOptions, opts.MarkRadius)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Renderer{opts: opts}, nil
}

// Options returns the effective options.
func (r *Renderer) Options() Options { return r.opts }

// SampleIndex maps a chart coordinate to the flat index of the sample drawn there. The chart's y
// axis points up, so chart row cy shows storage row height-1-cy and storage row 0 ends up on top.
func SampleIndex(width, height, cx, cy int) int {
	return width*(height-1-cy) + cx
}

// CanvasPoint maps a chart coordinate in a width x height data range onto a canvasW x canvasH
// raster whose origin is the top-left pixel.
func CanvasPoint(width, height, canvasW, canvasH, cx, cy int) image.Point {
	return image.Point{
		X: cx * canvasW / width,
		Y: (canvasH - 1) - cy*canvasH/height,
	}
}

// Render paints g onto a new canvas. Every chart coordinate (cx, cy) gets a disc colored with the
// normalized sample at SampleIndex, centered on CanvasPoint. Marks overlap when the radius is
// non zero or the canvas is smaller than the grid; the mark drawn last in cx-major, cy-minor
// order wins, whatever the number of workers.
//
// An empty grid yields a black canvas and no error.
func (r *Renderer) Render(ctx context.Context, g *grid.Grid, m GrayMapper) (*Canvas, error) {
	cw, ch := r.opts.CanvasWidth, r.opts.CanvasHeight
	canvas := NewCanvas(cw, ch)
	if g.IsEmpty() {
		return canvas, nil
	}
	if m == nil {
		return nil, fmt.Errorf("%w: nil gray mapper", ErrOptions)
	}

	w, h := g.Width, g.Height
	xs := make([]int, w)
	for cx := range xs {
		xs[cx] = CanvasPoint(w, h, cw, ch, cx, 0).X
	}
	ys := make([]int, h)
	for cy := range ys {
		ys[cy] = CanvasPoint(w, h, cw, ch, 0, cy).Y
	}

	bands := splitRows(cw, ch, r.opts.Workers*4)
	monitoring.Logf("render: %s onto %dx%d in %d bands, %d workers", g, cw, ch, len(bands), r.opts.Workers)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.opts.Workers)
	for _, band := range bands {
		band := band
		eg.Go(func() error {
			return r.renderBand(ctx, canvas, g, m, xs, ys, band)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return canvas, nil
}

// renderBand paints every mark whose disc reaches into band, clipped to band. Bands never share
// rows, so no two workers write the same pixel.
func (r *Renderer) renderBand(ctx context.Context, canvas *Canvas, g *grid.Grid, m GrayMapper,
	xs, ys []int, band image.Rectangle) error {
	rad := r.opts.MarkRadius

	var cys []int
	for cy, y := range ys {
		if y+rad >= band.Min.Y && y-rad < band.Max.Y {
			cys = append(cys, cy)
		}
	}
	if len(cys) == 0 {
		return nil
	}

	for cx, x := range xs {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, cy := range cys {
			v := g.Samples[SampleIndex(g.Width, g.Height, cx, cy)]
			canvas.paint(Mark{X: x, Y: ys[cy], Radius: rad, Color: color.Gray{Y: m.Normalize(v)}}, band)
		}
	}
	return nil
}

// splitRows cuts a width x height raster into at most n contiguous full-width bands.
func splitRows(width, height, n int) []image.Rectangle {
	if n < 1 {
		n = 1
	}
	if n > height {
		n = height
	}
	size := (height + n - 1) / n
	var bands []image.Rectangle
	for y := 0; y < height; y += size {
		hi := y + size
		if hi > height {
			hi = height
		}
		bands = append(bands, image.Rect(0, y, width, hi))
	}
	return bands
}
