package symmetry

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/internal/testutil"
)

func TestSymmetrizeEvenAndOddParts(t *testing.T) {
	x := []float64{-2, -1, 0, 1, 2}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = v*v + 3*v // even part v², odd part 3v
	}

	p, err := Symmetrize(x, y, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Center != 2 {
		t.Fatalf("Center = %d, want 2", p.Center)
	}
	testutil.RequireSliceNearlyEqual(t, p.X, x, 0)
	testutil.RequireSliceNearlyEqual(t, p.Sym, []float64{4, 1, 0, 1, 4}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, p.Asym, []float64{-6, -3, 0, 3, 6}, 1e-12)
}

func TestSymmetrizeClampsToShorterSide(t *testing.T) {
	x := []float64{-1, 0, 1, 2, 3, 4}
	y := []float64{10, 20, 30, 40, 50, 60}

	p, err := Symmetrize(x, y, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := p.Center
	if m != 1 {
		t.Fatalf("Center = %d, want 1", m)
	}
	for _, s := range [][]float64{p.X, p.Sym, p.Asym} {
		if len(s) != 2*m+1 {
			t.Fatalf("len = %d, want %d", len(s), 2*m+1)
		}
	}
	if p.Sym[m] != y[1] {
		t.Fatalf("Sym[center] = %v, want %v", p.Sym[m], y[1])
	}
	if p.Asym[m] != 0 {
		t.Fatalf("Asym[center] = %v, want 0", p.Asym[m])
	}
	// sym[m+i] + sym[m-i] recovers y[idx+i] + y[idx-i]
	if got := p.Sym[m+1] + p.Sym[m-1]; math.Abs(got-(y[2]+y[0])) > 1e-12 {
		t.Fatalf("sum of mirrored sym = %v, want %v", got, y[2]+y[0])
	}
	// sym + asym recovers the original right-hand sample
	if got := p.Sym[m+1] + p.Asym[m+1]; math.Abs(got-y[2]) > 1e-12 {
		t.Fatalf("sym+asym = %v, want %v", got, y[2])
	}
}

func TestSymmetrizeOffsetOrigin(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{1, 2, 3, 4, 5}

	p, err := Symmetrize(x, y, 2.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, p.X, []float64{2, 3, 4}, 0)
	testutil.RequireSliceNearlyEqual(t, p.Sym, []float64{4, 4, 4}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, p.Asym, []float64{-1, 0, 1}, 1e-12)
}

func TestSymmetrizeOriginAtEdge(t *testing.T) {
	p, err := Symmetrize([]float64{0, 1, 2}, []float64{5, 6, 7}, -3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Sym) != 1 || p.Sym[0] != 5 || p.Asym[0] != 0 {
		t.Fatalf("got %+v, want single center sample", p)
	}
}

func TestSymmetrizeDoesNotAliasInput(t *testing.T) {
	x := []float64{-1, 0, 1}
	p, err := Symmetrize(x, []float64{1, 2, 3}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.X[0] = 99
	if x[0] != -1 {
		t.Fatal("Parts.X aliases the input axis")
	}
}

func TestSymmetrizeErrors(t *testing.T) {
	if _, err := Symmetrize(nil, nil, 0); !errors.Is(err, core.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := Symmetrize([]float64{1, 2}, []float64{1}, 0); !errors.Is(err, core.ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}
