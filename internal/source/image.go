package source

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"FITSrender/internal/grid"
)

// ImageSource reads single channel raster files (TIFF, PNG, BMP, JPEG, GIF). Gray and Gray16
// images keep their stored levels; anything else is reduced to 16-bit luminance.
type ImageSource struct{}

func (*ImageSource) Name() string { return NameImage }

// Open decodes path. Storage row 0 is the top row of the file.
func (*ImageSource) Open(path string) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, decodeErr(path, "%v", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, decodeErr(path, "%v", err)
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	samples := make([]float32, 0, width*height)

	switch src := img.(type) {
	case *image.Gray:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				samples = append(samples, float32(src.GrayAt(x, y).Y))
			}
		}
	case *image.Gray16:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				samples = append(samples, float32(src.Gray16At(x, y).Y))
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
				samples = append(samples, float32(c.Y))
			}
		}
	}

	g, err := grid.New(width, height, samples)
	if err != nil {
		return nil, decodeErr(path, "%s: %v", format, err)
	}
	return g, nil
}
