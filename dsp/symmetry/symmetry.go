// Package symmetry splits a curve sampled on an axis into the parts that are
// even and odd about a chosen origin, as used to separate longitudinal and
// Hall contributions of a field sweep.
package symmetry

import (
	"fmt"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/stats/series"
)

// Parts is the result of Symmetrize. All three slices have length
// 2*Center+1 and X[Center] is the axis sample nearest the origin.
type Parts struct {
	X      []float64
	Sym    []float64
	Asym   []float64
	Center int
}

// Symmetrize decomposes y(x) about the sample of x nearest zero. Only the
// m samples available on both sides of that sample are used, where m is the
// shorter of the two sides. x must be ordered around zero; the result is
// undefined otherwise.
//
// Sym[Center±i] = (y[idx+i] + y[idx-i]) / 2
// Asym[Center±i] = ±(y[idx+i] - y[idx-i]) / 2
func Symmetrize(x, y []float64, zero float64) (Parts, error) {
	if len(x) != len(y) {
		return Parts{}, fmt.Errorf("symmetry: %d axis samples for %d values: %w", len(x), len(y), core.ErrShapeMismatch)
	}

	idx, err := series.Nearest(x, zero)
	if err != nil {
		return Parts{}, fmt.Errorf("symmetry: %w", err)
	}

	m := min(idx, len(x)-idx-1)
	p := Parts{
		X:      core.Clone(x[idx-m : idx+m+1]),
		Sym:    make([]float64, 2*m+1),
		Asym:   make([]float64, 2*m+1),
		Center: m,
	}

	p.Sym[m] = y[idx]
	for i := 1; i <= m; i++ {
		even := (y[idx+i] + y[idx-i]) / 2
		odd := (y[idx+i] - y[idx-i]) / 2
		p.Sym[m+i], p.Sym[m-i] = even, even
		p.Asym[m+i], p.Asym[m-i] = odd, -odd
	}

	return p, nil
}
