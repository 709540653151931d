package source

import (
	"fmt"
	"os"

	"github.com/astrogo/fitsio"

	"FITSrender/internal/grid"
)

// FitsioSource reads FITS images with github.com/astrogo/fitsio.
type FitsioSource struct {
	HDU int
}

func (s *FitsioSource) Name() string { return NameFitsio }

// Open reads the selected HDU, which must be an image with exactly two axes. NAXIS1 is the
// width and NAXIS2 the height. Integer data is converted to float32 and BSCALE/BZERO are applied.
func (s *FitsioSource) Open(path string) (*grid.Grid, error) {
	f, closeFile, err := openFitsFile(path)
	if err != nil {
		return nil, err
	}
	defer closeFile()

	img, err := imageHDU(f, path, s.HDU)
	if err != nil {
		return nil, err
	}

	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) != 2 {
		return nil, decodeErr(path, "HDU %d has %d axes %v, want 2", s.HDU, len(axes), axes)
	}
	width, height := axes[0], axes[1]

	samples, err := readSamples(img, width*height)
	if err != nil {
		return nil, decodeErr(path, "HDU %d: %v", s.HDU, err)
	}
	applyScaling(hdr, samples)

	g, err := grid.New(width, height, samples)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}
	return g, nil
}

// openFitsFile opens path and parses it. The returned func closes both the FITS handle and the
// underlying file.
func openFitsFile(path string) (*fitsio.File, func(), error) {
	fileHandle, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	fitsHandle, err := fitsio.Open(fileHandle)
	if err != nil {
		fileHandle.Close()
		return nil, nil, decodeErr(path, "%v", err)
	}

	return fitsHandle, func() {
		fitsHandle.Close()
		fileHandle.Close()
	}, nil
}

func imageHDU(f *fitsio.File, path string, index int) (fitsio.Image, error) {
	hdus := f.HDUs()
	if index < 0 || index >= len(hdus) {
		return nil, decodeErr(path, "HDU %d out of range (file has %d)", index, len(hdus))
	}
	img, ok := hdus[index].(fitsio.Image)
	if !ok {
		return nil, decodeErr(path, "HDU %d is a %v, not an image", index, hdus[index].Type())
	}
	return img, nil
}

// readSamples reads n pixels in the element type BITPIX dictates, then widens them to float32.
func readSamples(img fitsio.Image, n int) ([]float32, error) {
	out := make([]float32, n)
	bitpix := img.Header().Bitpix()
	switch bitpix {
	case 8:
		raw := make([]uint8, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float32(v)
		}
	case 16:
		raw := make([]int16, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float32(v)
		}
	case 32:
		raw := make([]int32, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float32(v)
		}
	case 64:
		raw := make([]int64, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float32(v)
		}
	case -32:
		if err := img.Read(&out); err != nil {
			return nil, err
		}
	case -64:
		raw := make([]float64, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float32(v)
		}
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
	}
	return out, nil
}

// applyScaling turns stored values into physical ones: physical = BZERO + BSCALE * stored.
func applyScaling(hdr *fitsio.Header, samples []float32) {
	scale := cardFloat(hdr, "BSCALE", 1)
	zero := cardFloat(hdr, "BZERO", 0)
	if scale == 1 && zero == 0 {
		return
	}
	for i, v := range samples {
		samples[i] = float32(zero + scale*float64(v))
	}
}

func cardFloat(hdr *fitsio.Header, name string, def float64) float64 {
	card := hdr.Get(name)
	if card == nil {
		return def
	}
	if v, ok := toFloat(card.Value); ok {
		return v
	}
	return def
}

func toFloat(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	}
	return 0, false
}
