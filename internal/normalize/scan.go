package normalize

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Range is the intensity interval a normalizer maps onto 0..255.
type Range struct {
	Min float32
	Max float32
}

// Diff is the width of the range.
func (r Range) Diff() float32 { return r.Max - r.Min }

func (r Range) String() string { return fmt.Sprintf("[%g, %g]", r.Min, r.Max) }

// Policy selects the min/max scan used to build a Range.
type Policy string

const (
	// PolicyReference seeds min and max with zero and updates them with an else-if, so the range
	// always contains zero. All-positive data gets Min pinned at 0, all-negative data Max.
	PolicyReference Policy = "reference"
	// PolicyTrue is the exact min/max of the finite samples.
	PolicyTrue Policy = "true"
)

// ErrUnknownPolicy is returned by ParsePolicy for names it does not know.
var ErrUnknownPolicy = errors.New("normalize: unknown range policy")

// ParsePolicy maps a configuration value to a Policy. The empty string means PolicyReference.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyReference:
		return PolicyReference, nil
	case PolicyTrue:
		return PolicyTrue, nil
	}
	return "", fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownPolicy, s, PolicyReference, PolicyTrue)
}

// partial is the result of scanning one chunk. found is false when the chunk had no finite sample.
type partial struct {
	rng   Range
	found bool
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

// ReferenceScan is the streaming scan rendered images have always used: seeds of 0 and an
// else-if, so a sample that raises Max is never checked against Min, and a sample equal to
// either bound changes nothing. Non-finite samples are skipped.
func ReferenceScan(samples []float32) Range {
	var dataMin, dataMax float32 = 0.0, 0.0
	for _, v := range samples {
		if !finite(v) {
			continue
		}
		if v > dataMax {
			dataMax = v
		} else if v < dataMin {
			dataMin = v
		}
	}
	return Range{Min: dataMin, Max: dataMax}
}

// TrueScan returns the exact min and max of the finite samples. ok is false if there were none.
func TrueScan(samples []float32) (r Range, ok bool) {
	for _, v := range samples {
		if !finite(v) {
			continue
		}
		if !ok {
			r = Range{Min: v, Max: v}
			ok = true
			continue
		}
		if v > r.Max {
			r.Max = v
		}
		if v < r.Min {
			r.Min = v
		}
	}
	return r, ok
}

func scanChunk(policy Policy, samples []float32) partial {
	if policy == PolicyTrue {
		r, ok := TrueScan(samples)
		return partial{rng: r, found: ok}
	}
	return partial{rng: ReferenceScan(samples), found: true}
}

// minChunk keeps tiny grids on a single goroutine.
const minChunk = 1 << 16

// Scan computes the range of samples with policy, splitting the work over at most workers
// goroutines. Both policies are plain min/max reductions once the seeds are accounted for, so the
// chunked result equals a single serial pass.
func Scan(ctx context.Context, samples []float32, policy Policy, workers int) (Range, error) {
	if workers < 1 {
		workers = 1
	}
	chunks := (len(samples) + minChunk - 1) / minChunk
	if chunks > workers {
		chunks = workers
	}
	if chunks <= 1 {
		if err := ctx.Err(); err != nil {
			return Range{}, err
		}
		return scanChunk(policy, samples).rng, nil
	}

	size := (len(samples) + chunks - 1) / chunks
	parts := make([]partial, chunks)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < chunks; i++ {
		lo := i * size
		hi := lo + size
		if hi > len(samples) {
			hi = len(samples)
		}
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parts[i] = scanChunk(policy, samples[lo:hi])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Range{}, err
	}
	return merge(parts), nil
}

func merge(parts []partial) Range {
	var out Range
	seen := false
	for _, p := range parts {
		if !p.found {
			continue
		}
		if !seen {
			out = p.rng
			seen = true
			continue
		}
		if p.rng.Max > out.Max {
			out.Max = p.rng.Max
		}
		if p.rng.Min < out.Min {
			out.Min = p.rng.Min
		}
	}
	return out
}
