package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Analysis holds numerically computed spectral properties of a window.
type Analysis struct {
	Kind   Kind
	Length int
	// CoherentGain is sum(w[n]) / N, the DC response of the window.
	CoherentGain float64
	// ENBW is the equivalent noise bandwidth in bins.
	ENBW float64
	// ScallopLossdB is the worst-case amplitude error for an off-bin signal.
	ScallopLossdB float64
}

// Info analyzes the window of kind k and the given length.
func Info(k Kind, length int) (Analysis, error) {
	if err := validateLength(length); err != nil {
		return Analysis{}, err
	}
	a, err := Analyze(Generate(k, length))
	if err != nil {
		return Analysis{}, err
	}
	a.Kind = k
	a.Length = length
	return a, nil
}

// Analyze computes coherent gain, ENBW and scallop loss of the given
// coefficients.
func Analyze(coeffs []float64) (Analysis, error) {
	n := len(coeffs)
	if n == 0 {
		return Analysis{}, errEmptyCoeffs
	}

	squares := make([]float64, n)
	vecmath.MulBlock(squares, coeffs, coeffs)

	sum, sumSq := 0.0, 0.0
	for i, c := range coeffs {
		sum += c
		sumSq += squares[i]
	}
	if sum == 0 {
		return Analysis{}, errZeroCoherentGain
	}

	dcRef := sum * sum
	scallop := 0.0
	if half := dftMagSq(coeffs, 0.5/float64(n)); half > 0 {
		scallop = 10 * math.Log10(half/dcRef)
	}

	return Analysis{
		Length:        n,
		CoherentGain:  sum / float64(n),
		ENBW:          float64(n) * sumSq / dcRef,
		ScallopLossdB: scallop,
	}, nil
}

// dftMagSq evaluates |DFT(freq)|^2 at a normalised frequency [0,1).
func dftMagSq(coeffs []float64, freq float64) float64 {
	re, im := 0.0, 0.0
	for i, c := range coeffs {
		phase := 2 * math.Pi * freq * float64(i)
		re += c * math.Cos(phase)
		im -= c * math.Sin(phase)
	}
	return re*re + im*im
}
