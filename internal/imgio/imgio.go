// Package imgio reads and writes raster image files.
package imgio

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// ErrEncode is returned when an image cannot be written to disk.
var ErrEncode = errors.New("imgio: cannot write image")

// Save creates the parent directory if needed and writes img to filename. The format is decided
// upon its extension: png, jpg/jpeg, gif, tif/tiff or bmp.
func Save(filename string, img image.Image) error {
	if _, err := imaging.FormatFromFilename(filename); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, filename, err)
	}
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: %v", ErrEncode, err)
		}
	}
	if err := imaging.Save(img, filename); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, filename, err)
	}
	return nil
}

// ReadFile reads an image from a file.
func ReadFile(filename string) (image.Image, error) {
	return imaging.Open(filename)
}
