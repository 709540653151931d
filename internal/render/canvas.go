package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"FITSrender/internal/imgio"
)

// ErrFinalized is returned when a canvas that was already written is saved again.
var ErrFinalized = errors.New("render: canvas already written")

// Canvas is the raster marks are painted on. It starts opaque black and is written to disk
// exactly once.
type Canvas struct {
	img *image.RGBA

	mu        sync.Mutex
	finalized bool
}

// NewCanvas returns a black canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return &Canvas{img: img}
}

// Image exposes the underlying raster.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Bounds is the canvas rectangle, always anchored at the origin.
func (c *Canvas) Bounds() image.Rectangle { return c.img.Rect }

// GrayAt returns the red channel at (x, y); marks are always painted with R=G=B.
func (c *Canvas) GrayAt(x, y int) uint8 {
	return c.img.Pix[c.img.PixOffset(x, y)]
}

// paint fills the disc of m clipped to clip. Callers painting concurrently must pass
// non-overlapping clip rectangles.
func (c *Canvas) paint(m Mark, clip image.Rectangle) {
	r := m.Radius
	area := image.Rect(m.X-r, m.Y-r, m.X+r+1, m.Y+r+1).Intersect(clip).Intersect(c.img.Rect)
	if area.Empty() {
		return
	}
	rr := r * r
	for y := area.Min.Y; y < area.Max.Y; y++ {
		dy := y - m.Y
		off := c.img.PixOffset(area.Min.X, y)
		for x := area.Min.X; x < area.Max.X; x, off = x+1, off+4 {
			dx := x - m.X
			if dx*dx+dy*dy > rr {
				continue
			}
			pix := c.img.Pix[off : off+4 : off+4]
			pix[0] = m.Color.Y
			pix[1] = m.Color.Y
			pix[2] = m.Color.Y
			pix[3] = 0xff
		}
	}
}

// Paint draws a single mark on the whole canvas.
func (c *Canvas) Paint(m Mark) {
	c.paint(m, c.img.Rect)
}

// Save encodes the canvas to filename. A canvas can only be saved once; a failed write leaves it
// unsaved so the caller may report the error, but the run is expected to stop there.
func (c *Canvas) Save(filename string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.finalized {
		return fmt.Errorf("%w: %s", ErrFinalized, filename)
	}
	if err := imgio.Save(filename, c.img); err != nil {
		return err
	}
	c.finalized = true
	return nil
}

// Mark is a filled disc centered on a canvas pixel.
type Mark struct {
	X      int
	Y      int
	Radius int
	Color  color.Gray
}
