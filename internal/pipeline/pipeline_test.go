package pipeline

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FITSrender/internal/grid"
	"FITSrender/internal/imgio"
	"FITSrender/internal/monitoring"
	"FITSrender/internal/normalize"
	"FITSrender/internal/source"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
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

func gray(t *testing.T, img image.Image, x, y int) uint8 {
	t.Helper()
	r, g, b, a := img.At(x, y).RGBA()
	require.Equal(t, r, g)
	require.Equal(t, r, b)
	require.Equal(t, uint32(0xffff), a)
	return uint8(r >> 8)
}

func TestNoneSourceWritesBlackCanvas(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "quad.fits")
	writeFits(t, input, 2, 2, []float32{0.0, 10.0, 5.0, 15.0})

	cfg := DefaultConfig()
	cfg.Input = input
	cfg.Source = source.NameNone
	cfg.Output = filepath.Join(dir, "output", "default.png")

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Output, res.Output)
	assert.Zero(t, res.Width)

	img, err := imgio.ReadFile(cfg.Output)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 1920, 1080), img.Bounds())
	for y := 0; y < 1080; y += 7 {
		for x := 0; x < 1920; x += 7 {
			if gray(t, img, x, y) != 0 {
				t.Fatalf("pixel (%d,%d) is not black", x, y)
			}
		}
	}
}

func TestFitsRenderEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "quad.fits")
	writeFits(t, input, 2, 2, []float32{0.0, 10.0, 5.0, 15.0})

	cfg := DefaultConfig()
	cfg.Input = input
	cfg.Output = filepath.Join(dir, "quad.png")
	cfg.CanvasWidth, cfg.CanvasHeight = 2, 2
	cfg.MarkRadius = 0
	cfg.Histogram = filepath.Join(dir, "quad_hist.png")

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Width)
	assert.Equal(t, 2, res.Height)
	assert.Equal(t, normalize.Range{Min: 0, Max: 15}, res.Range)
	assert.Equal(t, 4, res.Summary.Finite)

	img, err := imgio.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), gray(t, img, 0, 0))
	assert.Equal(t, uint8(170), gray(t, img, 1, 0))
	assert.Equal(t, uint8(85), gray(t, img, 0, 1))
	assert.Equal(t, uint8(255), gray(t, img, 1, 1))

	_, err = os.Stat(cfg.Histogram)
	assert.NoError(t, err)
}

func TestDegenerateRangeFailsBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	g, err := grid.New(2, 2, []float32{0, 0, 0, 0})
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Output = filepath.Join(dir, "flat.png")

	_, err = RunWithSource(context.Background(), cfg, source.NewMemory(g))
	require.Error(t, err)
	assert.ErrorIs(t, err, normalize.ErrDegenerateRange)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageNormalize, stageErr.Stage)

	_, statErr := os.Stat(cfg.Output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestEncodeFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	cfg := DefaultConfig()
	cfg.Source = source.NameNone
	cfg.Output = filepath.Join(blocker, "out.png")

	_, err := Run(context.Background(), cfg)
	assert.ErrorIs(t, err, imgio.ErrEncode)
	assert.Contains(t, err.Error(), StageEncode+": ")
}

func TestDecodeFailureIsReported(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input = filepath.Join(t.TempDir(), "missing.fits")
	cfg.Output = filepath.Join(t.TempDir(), "out.png")

	_, err := Run(context.Background(), cfg)
	assert.ErrorIs(t, err, source.ErrDecode)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageDecode, stageErr.Stage)
}

func TestConfigErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source = "rubbl_fits"
	_, err := Run(context.Background(), cfg)
	assert.ErrorIs(t, err, source.ErrUnknownSource)

	cfg = DefaultConfig()
	cfg.RangePolicy = "zscale"
	_, err = Run(context.Background(), cfg)
	assert.ErrorIs(t, err, normalize.ErrUnknownPolicy)
}

func TestOutputPath(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("output", "fitsio.png"), cfg.OutputPath())

	cfg.Source = ""
	assert.Equal(t, filepath.Join("output", "none.png"), cfg.OutputPath())

	cfg.Output = "elsewhere/x.bmp"
	assert.Equal(t, "elsewhere/x.bmp", cfg.OutputPath())
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	writeFits(t, filepath.Join(dir, "a.fits"), 2, 1, []float32{-1, 1})
	writeFits(t, filepath.Join(dir, "b.fit"), 1, 2, []float32{3, -3})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))

	cfg := DefaultConfig()
	cfg.CanvasWidth, cfg.CanvasHeight = 16, 9
	outDir := filepath.Join(dir, "renders")

	results, err := RunBatch(context.Background(), cfg, dir, outDir, true)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, filepath.Join(outDir, "a.png"), results[0].Output)
	assert.Equal(t, filepath.Join(outDir, "b.png"), results[1].Output)
	for _, res := range results {
		_, err := os.Stat(res.Output)
		assert.NoError(t, err)
	}
	_, err = os.Stat(filepath.Join(outDir, "a_hist.png"))
	assert.NoError(t, err)
}
