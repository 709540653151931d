package normalize

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"FITSrender/internal/grid"
)

// Summary describes the distribution of the finite samples of a grid.
type Summary struct {
	Count  int
	Finite int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	Std    float64
	P01    float64 // 1st percentile
	P99    float64 // 99th percentile
}

// Summarize computes a Summary. A grid without finite samples returns a Summary with only the
// counts filled in.
func Summarize(g *grid.Grid) (Summary, error) {
	s := Summary{Count: g.Len()}

	data := make(stats.Float64Data, 0, g.Len())
	for _, v := range g.Samples {
		if finite(v) {
			data = append(data, float64(v))
		}
	}
	s.Finite = len(data)
	if s.Finite == 0 {
		return s, nil
	}

	var err error
	if s.Min, err = data.Min(); err != nil {
		return s, fmt.Errorf("summary min: %w", err)
	}
	if s.Max, err = data.Max(); err != nil {
		return s, fmt.Errorf("summary max: %w", err)
	}
	if s.Mean, err = data.Mean(); err != nil {
		return s, fmt.Errorf("summary mean: %w", err)
	}
	if s.Median, err = data.Median(); err != nil {
		return s, fmt.Errorf("summary median: %w", err)
	}
	if s.Std, err = data.StandardDeviation(); err != nil {
		return s, fmt.Errorf("summary std: %w", err)
	}
	if s.P01, err = data.PercentileNearestRank(1); err != nil {
		return s, fmt.Errorf("summary p01: %w", err)
	}
	if s.P99, err = data.PercentileNearestRank(99); err != nil {
		return s, fmt.Errorf("summary p99: %w", err)
	}
	return s, nil
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d finite=%d min=%.4g max=%.4g mean=%.4g median=%.4g std=%.4g p01=%.4g p99=%.4g",
		s.Count, s.Finite, s.Min, s.Max, s.Mean, s.Median, s.Std, s.P01, s.P99)
}
