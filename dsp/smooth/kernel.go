package smooth

import (
	"fmt"
	"math"

	"github.com/patrickmn/go-cache"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/dsp/window"
)

// kernels holds normalized kernels keyed by shape. Entries never expire:
// a run uses a handful of shapes and each is tiny.
var kernels = cache.New(cache.NoExpiration, 0)

// DefaultSigma is the Gaussian width used when none is configured:
// sqrt(n/2) for a half-width of n samples.
func DefaultSigma(n int) float64 {
	return math.Sqrt(float64(n) / 2)
}

// GaussianKernel returns the normalized Gaussian kernel over [-n, n].
func GaussianKernel(n int, sigma float64) ([]float64, error) {
	k, err := gaussianKernel(n, sigma)
	if err != nil {
		return nil, err
	}
	return core.Clone(k), nil
}

// LinearKernel returns the normalized uniform kernel of width 2n+1.
func LinearKernel(n int) ([]float64, error) {
	k, err := linearKernel(n)
	if err != nil {
		return nil, err
	}
	return core.Clone(k), nil
}

// The unexported builders return the cached slice itself; callers must
// treat it as read-only.

func gaussianKernel(n int, sigma float64) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("smooth: gaussian half-width must be >= 0: %d: %w", n, core.ErrInvalidArgument)
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("smooth: gaussian sigma must be finite and > 0: %v: %w", sigma, core.ErrInvalidArgument)
	}

	key := fmt.Sprintf("gauss/%d/%g", n, sigma)
	if k, ok := kernels.Get(key); ok {
		return k.([]float64), nil
	}

	k := make([]float64, 2*n+1)
	sum := 0.0
	for i := range k {
		x := float64(i - n)
		k[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}

	kernels.Set(key, k, cache.NoExpiration)
	return k, nil
}

func linearKernel(n int) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("smooth: linear half-width must be >= 0: %d: %w", n, core.ErrInvalidArgument)
	}

	key := fmt.Sprintf("linear/%d", n)
	if k, ok := kernels.Get(key); ok {
		return k.([]float64), nil
	}

	width := 2*n + 1
	k := make([]float64, width)
	for i := range k {
		k[i] = 1 / float64(width)
	}

	kernels.Set(key, k, cache.NoExpiration)
	return k, nil
}

func windowKernel(kind window.Kind, length int) ([]float64, error) {
	key := fmt.Sprintf("window/%d/%d", int(kind), length)
	if k, ok := kernels.Get(key); ok {
		return k.([]float64), nil
	}

	k, err := window.Normalized(kind, length)
	if err != nil {
		return nil, fmt.Errorf("smooth: %w", err)
	}

	kernels.Set(key, k, cache.NoExpiration)
	return k, nil
}
