// Package series provides the extremum searches and summary statistics the
// pulse pipeline needs on single channels.
package series

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pulse/dsp/core"
)

// Summary holds time-domain statistics of one channel.
type Summary struct {
	Length   int
	Mean     float64
	RMS      float64
	Variance float64
	Max      float64
	MaxPos   int
	Min      float64
	MinPos   int
	Peak     float64 // max(|x|)
	PeakPos  int     // first index of Peak
}

// Summarize computes all statistics in a single pass using Welford's online
// algorithm for the variance. NaN samples propagate into Mean, RMS and
// Variance and are never selected as extrema.
func Summarize(signal []float64) (Summary, error) {
	n := len(signal)
	if n == 0 {
		return Summary{}, fmt.Errorf("series: summarize: %w", core.ErrEmptyInput)
	}

	var mean, m2, sumSq float64
	s := Summary{
		Length: n,
		Max:    math.Inf(-1),
		Min:    math.Inf(1),
		Peak:   -1,
	}

	for i, x := range signal {
		ni := float64(i + 1)
		delta := x - mean
		mean += delta / ni
		m2 += delta * (x - mean)
		sumSq += x * x

		if x > s.Max {
			s.Max, s.MaxPos = x, i
		}
		if x < s.Min {
			s.Min, s.MinPos = x, i
		}
		if a := math.Abs(x); a > s.Peak {
			s.Peak, s.PeakPos = a, i
		}
	}

	if s.Peak < 0 {
		// all samples were NaN
		s.Peak = math.NaN()
	}

	nf := float64(n)
	s.Mean = mean
	s.RMS = math.Sqrt(sumSq / nf)
	s.Variance = m2 / nf
	return s, nil
}

// PeakAbs returns max(|x|) and the first index where it occurs.
// NaN samples are skipped unless every sample is NaN, in which case the
// result is (NaN, 0).
func PeakAbs(x []float64) (float64, int, error) {
	if len(x) == 0 {
		return 0, 0, fmt.Errorf("series: peak: %w", core.ErrEmptyInput)
	}

	peak, pos := math.NaN(), 0
	for i, v := range x {
		a := math.Abs(v)
		if a > peak || (math.IsNaN(peak) && !math.IsNaN(a)) {
			peak, pos = a, i
		}
	}
	return peak, pos, nil
}

// Nearest returns the first index i minimizing |x[i] - target|. It is a
// nearest-sample search, not a crossing detector: a signal that only
// approaches target still yields its closest sample.
func Nearest(x []float64, target float64) (int, error) {
	if len(x) == 0 {
		return 0, fmt.Errorf("series: nearest: %w", core.ErrEmptyInput)
	}

	best, pos := math.Inf(1), 0
	for i, v := range x {
		if d := math.Abs(v - target); d < best {
			best, pos = d, i
		}
	}
	return pos, nil
}
