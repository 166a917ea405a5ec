package interp

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-pulse/dsp/core"
)

// Linear2 interpolates from x0 to x1 at fraction t in [0,1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Linear evaluates the piecewise-linear function through (xp[i], fp[i]) at
// every x and returns a new slice of len(x). xp must be ascending for the
// result to be meaningful; this is not checked. Repeated positions in xp
// resolve to the value of the last repeat.
func Linear(x, xp, fp []float64) ([]float64, error) {
	if len(xp) != len(fp) {
		return nil, fmt.Errorf("interp: %d positions for %d values: %w", len(xp), len(fp), core.ErrShapeMismatch)
	}
	if len(xp) == 0 {
		return nil, fmt.Errorf("interp: no sample positions: %w", core.ErrEmptyInput)
	}

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = at(v, xp, fp)
	}
	return out, nil
}

func at(x float64, xp, fp []float64) float64 {
	last := len(xp) - 1
	switch {
	case math.IsNaN(x):
		return math.NaN()
	case x < xp[0]:
		return fp[0]
	case x >= xp[last]:
		return fp[last]
	}

	// first index with xp[j] > x; xp[j-1] <= x < xp[j]
	j := sort.Search(len(xp), func(k int) bool { return xp[k] > x })
	lo, hi := j-1, j

	dx := xp[hi] - xp[lo]
	if dx == 0 {
		return fp[lo]
	}
	return Linear2((x-xp[lo])/dx, fp[lo], fp[hi])
}
