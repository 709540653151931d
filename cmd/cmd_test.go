package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FITSrender/internal/imgio"
	"FITSrender/internal/source"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFits(t *testing.T, path string, width, height int, data []float32) {
	t.Helper()
	w, err := os.Create(path)
	require.NoError(t, err)
	defer w.Close()

	f, err := fitsio.Create(w)
	require.NoError(t, err)
	img := fitsio.NewImage(-32, []int{width, height})
	defer img.Close()
	require.NoError(t, img.Write(&data))
	require.NoError(t, f.Write(img))
	require.NoError(t, f.Close())
}

func TestRenderNoneSource(t *testing.T) {
	output := filepath.Join(t.TempDir(), "default.png")
	out, err := execute(t, "render", "--source", "none", "-o", output,
		"--canvas-width", "32", "--canvas-height", "18")
	require.NoError(t, err)
	assert.Contains(t, out, "Render saved as "+output)

	img, err := imgio.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 18, img.Bounds().Dy())
}

func TestRenderUnknownSource(t *testing.T) {
	_, err := execute(t, "render", "--source", "fits-rs", "-o", filepath.Join(t.TempDir(), "x.png"))
	assert.ErrorIs(t, err, source.ErrUnknownSource)
}

func TestInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.fits")
	writeFits(t, path, 2, 2, []float32{0, 10, 5, 15})

	out, err := execute(t, "info", "--source", "fitsio", path)
	require.NoError(t, err)
	assert.Contains(t, out, "shape 2 x 2")
	assert.Contains(t, out, "BITPIX -32")
	assert.Contains(t, out, "grid: 2x2 (4 samples)")
	assert.Contains(t, out, "range (reference): [0, 15]")
	assert.Contains(t, out, "range (true): [0, 15]")
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	writeFits(t, filepath.Join(dir, "one.fits"), 2, 1, []float32{-2, 2})
	outDir := filepath.Join(dir, "renders")

	out, err := execute(t, "batch", "--source", "fitsio", "--out-dir", outDir,
		"--canvas-width", "8", "--canvas-height", "4", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(outDir, "one.png"))

	_, err = execute(t, "batch", filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
