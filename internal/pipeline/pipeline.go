// Package pipeline runs one render from a data file to an image file: decode, scan the intensity
// range, draw, encode.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"FITSrender/internal/grid"
	"FITSrender/internal/histogram"
	"FITSrender/internal/monitoring"
	"FITSrender/internal/normalize"
	"FITSrender/internal/render"
	"FITSrender/internal/source"
)

// DefaultInput is the asset rendered when no file is given.
const DefaultInput = "assets/eagle_nebula/502nmos.fits"

// DefaultOutputDir holds renders whose output path is not set.
const DefaultOutputDir = "output"

// Config is everything a render needs.
type Config struct {
	Input         string
	Source        string
	HDU           int
	Output        string // empty means output/<source>.png
	CanvasWidth   int
	CanvasHeight  int
	MarkRadius    int
	Workers       int
	RangePolicy   string
	Histogram     string // histogram image path, empty to skip
	HistogramBins int
}

// DefaultConfig mirrors the reference render: fitsio, 1920x1080, radius 1 marks.
func DefaultConfig() Config {
	return Config{
		Input:         DefaultInput,
		Source:        source.NameFitsio,
		CanvasWidth:   render.DefaultCanvasWidth,
		CanvasHeight:  render.DefaultCanvasHeight,
		MarkRadius:    render.DefaultMarkRadius,
		Workers:       runtime.NumCPU(),
		RangePolicy:   string(normalize.PolicyReference),
		HistogramBins: histogram.DefaultBins,
	}
}

// OutputPath is Output, or output/<source>.png when Output is empty.
func (c Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	name := strings.ToLower(strings.TrimSpace(c.Source))
	if name == "" {
		name = source.NameNone
	}
	return filepath.Join(DefaultOutputDir, name+".png")
}

// Stage names used in errors.
const (
	StageConfig    = "config"
	StageDecode    = "decode"
	StageNormalize = "normalize"
	StageRender    = "render"
	StageEncode    = "encode"
	StageHistogram = "histogram"
)

// StageError tells which stage of the run failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

func fail(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// Result describes a finished render.
type Result struct {
	Input   string
	Output  string
	Width   int
	Height  int
	Range   normalize.Range
	Summary normalize.Summary
	Elapsed time.Duration
}

// Run renders cfg.Input with the data source named by cfg.Source.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	src, err := source.New(cfg.Source, source.Options{HDU: cfg.HDU})
	if err != nil {
		return nil, fail(StageConfig, err)
	}
	return RunWithSource(ctx, cfg, src)
}

// RunWithSource renders cfg.Input with src, ignoring cfg.Source except for the default output name.
func RunWithSource(ctx context.Context, cfg Config, src source.DataSource) (*Result, error) {
	start := time.Now()

	policy, err := normalize.ParsePolicy(cfg.RangePolicy)
	if err != nil {
		return nil, fail(StageConfig, err)
	}
	renderer, err := render.New(render.Options{
		CanvasWidth:  cfg.CanvasWidth,
		CanvasHeight: cfg.CanvasHeight,
		MarkRadius:   cfg.MarkRadius,
		Workers:      cfg.Workers,
	})
	if err != nil {
		return nil, fail(StageConfig, err)
	}
	workers := renderer.Options().Workers

	g, err := src.Open(cfg.Input)
	if err != nil {
		return nil, fail(StageDecode, err)
	}
	monitoring.Logf("%s: decoded %s with %s", cfg.Input, g, src.Name())

	res := &Result{Input: cfg.Input, Output: cfg.OutputPath(), Width: g.Width, Height: g.Height}

	// The range must be complete before any draw worker starts; New returns only after the scan.
	var mapper render.GrayMapper
	if !g.IsEmpty() {
		n, err := normalize.New(ctx, g, policy, workers)
		if err != nil {
			return nil, fail(StageNormalize, err)
		}
		mapper = n
		res.Range = n.Range()
		monitoring.Logf("%s: %s range %s", cfg.Input, policy, res.Range)

		if res.Summary, err = normalize.Summarize(g); err != nil {
			monitoring.Logf("%s: summary: %v", cfg.Input, err)
		} else {
			monitoring.Logf("%s: %s", cfg.Input, res.Summary)
		}
	}

	canvas, err := renderer.Render(ctx, g, mapper)
	if err != nil {
		return nil, fail(StageRender, err)
	}
	if err := canvas.Save(res.Output); err != nil {
		return nil, fail(StageEncode, err)
	}
	monitoring.Logf("%s: wrote %s", cfg.Input, res.Output)

	if cfg.Histogram != "" {
		if err := writeHistogram(cfg, g, mapper); err != nil {
			return nil, fail(StageHistogram, err)
		}
	}

	res.Elapsed = time.Since(start)
	return res, nil
}

func writeHistogram(cfg Config, g *grid.Grid, mapper render.GrayMapper) error {
	if mapper == nil {
		monitoring.Logf("%s: no samples, histogram skipped", cfg.Input)
		return nil
	}
	title := fmt.Sprintf("%s gray levels", filepath.Base(cfg.Input))
	if err := histogram.Save(g, mapper, cfg.HistogramBins, title, cfg.Histogram); err != nil {
		return err
	}
	monitoring.Logf("%s: wrote %s", cfg.Input, cfg.Histogram)
	return nil
}

// RunBatch renders every FITS file in dir into outDir, one <name>.png per file, plus
// <name>_hist.png when histograms is set. cfg.Output and cfg.Histogram are ignored. The first
// failure stops the batch.
func RunBatch(ctx context.Context, cfg Config, dir, outDir string, histograms bool) ([]*Result, error) {
	paths, err := source.ListFitsFiles(dir)
	if err != nil {
		return nil, fail(StageDecode, err)
	}
	if outDir == "" {
		outDir = DefaultOutputDir
	}

	var results []*Result
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		one := cfg
		one.Input = path
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		one.Output = filepath.Join(outDir, base+".png")
		one.Histogram = ""
		if histograms {
			one.Histogram = filepath.Join(outDir, base+"_hist.png")
		}
		res, err := Run(ctx, one)
		if err != nil {
			return results, fmt.Errorf("%s: %w", path, err)
		}
		results = append(results, res)
	}
	return results, nil
}
