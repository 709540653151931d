// Package histogram plots the distribution of gray levels a render produced.
package histogram

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"FITSrender/internal/grid"
	"FITSrender/internal/render"
)

// DefaultBins is the bin count used when none is given.
const DefaultBins = 64

// ErrNoData is returned when the grid has no finite sample to plot.
var ErrNoData = errors.New("histogram: no finite samples")

// Levels returns the gray level of every finite sample of g.
func Levels(g *grid.Grid, m render.GrayMapper) plotter.Values {
	levels := make(plotter.Values, 0, g.Len())
	for _, v := range g.Samples {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			continue
		}
		levels = append(levels, float64(m.Normalize(v)))
	}
	return levels
}

// Build returns a histogram plot of the gray levels of g with the given number of bins.
func Build(g *grid.Grid, m render.GrayMapper, bins int, title string) (*plot.Plot, error) {
	levels := Levels(g, m)
	if len(levels) == 0 {
		return nil, ErrNoData
	}
	if bins <= 0 {
		bins = DefaultBins
	}

	plt := plot.New()
	plt.X.Min = 0
	plt.X.Max = 255
	plt.Title.Text = title
	plt.X.Label.Text = "gray level"
	plt.Y.Label.Text = "samples"

	h, err := plotter.NewHist(levels, bins)
	if err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}
	plt.Add(h)
	return plt, nil
}

// Save builds the histogram and writes it to filename. The format follows the extension.
func Save(g *grid.Grid, m render.GrayMapper, bins int, title, filename string) error {
	plt, err := Build(g, m, bins, title)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("histogram: %w", err)
	}
	if err := plt.Save(8*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("histogram: save %s: %w", filename, err)
	}
	return nil
}
