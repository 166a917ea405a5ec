// Package window generates the taper windows used by the smoothing kernels.
//
// The set of kinds is closed: [Flat], [Hanning], [Hamming], [Bartlett] and
// [Blackman]. Every kind is computed from its closed-form formula in the
// symmetric form, so a window of length M has w[0] == w[M-1].
package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-pulse/dsp/core"
)

// Kind identifies a window function.
type Kind int

const (
	// Flat is the uniform (moving-average) window.
	Flat Kind = iota
	// Hanning is the raised-cosine window 0.5 - 0.5cos(2πn/(M-1)).
	Hanning
	// Hamming is 0.54 - 0.46cos(2πn/(M-1)).
	Hamming
	// Bartlett is the triangular window with zero end points.
	Bartlett
	// Blackman is 0.42 - 0.5cos(2πn/(M-1)) + 0.08cos(4πn/(M-1)).
	Blackman
)

// Kinds returns every supported window kind in declaration order.
func Kinds() []Kind {
	return []Kind{Flat, Hanning, Hamming, Bartlett, Blackman}
}

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case Flat:
		return "flat"
	case Hanning:
		return "hanning"
	case Hamming:
		return "hamming"
	case Bartlett:
		return "bartlett"
	case Blackman:
		return "blackman"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= Flat && k <= Blackman
}

// ParseKind maps a configuration name to its Kind. Matching ignores case
// and surrounding blanks; "hann" is accepted for Hanning.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "flat":
		return Flat, nil
	case "hanning", "hann":
		return Hanning, nil
	case "hamming":
		return Hamming, nil
	case "bartlett":
		return Bartlett, nil
	case "blackman":
		return Blackman, nil
	default:
		return 0, fmt.Errorf("window: unknown kind %q: %w", name, core.ErrInvalidArgument)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("window: %v: %w", k, core.ErrInvalidArgument)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Generate returns the symmetric window coefficients of the given length.
// A length of 1 yields [1] for every kind; a non-positive length yields nil.
func Generate(k Kind, length int) []float64 {
	if length <= 0 || !k.Valid() {
		return nil
	}

	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out
	}

	denom := float64(length - 1)
	for i := range out {
		out[i] = eval(k, float64(i)/denom)
	}

	return out
}

// eval computes the window at normalized position x in [0, 1].
func eval(k Kind, x float64) float64 {
	switch k {
	case Hanning:
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	case Hamming:
		return 0.54 - 0.46*math.Cos(2*math.Pi*x)
	case Bartlett:
		return 1 - math.Abs(2*x-1)
	case Blackman:
		return 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	default:
		return 1
	}
}

// Normalized returns window coefficients scaled to sum to 1, ready to be
// used as a smoothing kernel.
func Normalized(k Kind, length int) ([]float64, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("window: %v: %w", k, core.ErrInvalidArgument)
	}
	if err := validateLength(length); err != nil {
		return nil, err
	}

	w := Generate(k, length)
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: %v of length %d", errZeroCoherentGain, k, length)
	}

	inv := 1 / sum
	for i := range w {
		w[i] *= inv
	}

	return w, nil
}
