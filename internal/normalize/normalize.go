// Package normalize maps raw floating point samples to 8-bit gray levels.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"math"

	"FITSrender/internal/grid"
)

// ErrDegenerateRange is returned when the scanned range has zero width, which would otherwise
// divide every sample by zero.
var ErrDegenerateRange = errors.New("normalize: degenerate range")

// Normalizer holds a scanned Range. It is immutable once built and safe for concurrent use.
type Normalizer struct {
	rng    Range
	diff   float32
	policy Policy
}

// New scans g with policy and returns a Normalizer for its samples.
func New(ctx context.Context, g *grid.Grid, policy Policy, workers int) (*Normalizer, error) {
	rng, err := Scan(ctx, g.Samples, policy, workers)
	if err != nil {
		return nil, err
	}
	return FromRange(rng, policy)
}

// FromRange builds a Normalizer for an already known range.
func FromRange(rng Range, policy Policy) (*Normalizer, error) {
	diff := rng.Diff()
	if diff == 0 || !finite(diff) {
		return nil, fmt.Errorf("%w: min=%g max=%g", ErrDegenerateRange, rng.Min, rng.Max)
	}
	return &Normalizer{rng: rng, diff: diff, policy: policy}, nil
}

// Range returns the scanned intensity range.
func (n *Normalizer) Range() Range { return n.rng }

// Policy returns the scan policy the range came from.
func (n *Normalizer) Policy() Policy { return n.policy }

// Normalize maps v to a gray level as round(v / diff * 255), saturating at 0 and 255.
// The sample is divided as is, not offset by Min, so the low end of a range that straddles zero
// lands below 0 and is clamped. Non-finite samples map to 0.
func (n *Normalizer) Normalize(v float32) uint8 {
	if !finite(v) {
		return 0
	}
	x := math.Round(float64(v / n.diff * 255.0))
	if x <= 0 {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(x)
}
