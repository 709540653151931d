package histogram

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FITSrender/internal/grid"
	"FITSrender/internal/normalize"
)

func TestLevelsSkipsNonFinite(t *testing.T) {
	g, err := grid.New(4, 1, []float32{0, 5, float32(math.NaN()), 10})
	require.NoError(t, err)
	n, err := normalize.FromRange(normalize.Range{Min: 0, Max: 10}, normalize.PolicyReference)
	require.NoError(t, err)

	levels := Levels(g, n)
	assert.Equal(t, []float64{0, 128, 255}, []float64(levels))
}

func TestSave(t *testing.T) {
	samples := make([]float32, 200)
	for i := range samples {
		samples[i] = float32(i%50) - 10
	}
	g, err := grid.New(20, 10, samples)
	require.NoError(t, err)
	n, err := normalize.FromRange(normalize.ReferenceScan(samples), normalize.PolicyReference)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "plots", "hist.png")
	require.NoError(t, Save(g, n, 0, "gray levels", path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestBuildNoData(t *testing.T) {
	n, err := normalize.FromRange(normalize.Range{Min: 0, Max: 1}, normalize.PolicyReference)
	require.NoError(t, err)
	_, err = Build(grid.Empty(), n, 10, "")
	assert.ErrorIs(t, err, ErrNoData)
}
