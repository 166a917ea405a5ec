package smooth

import (
	"fmt"

	"github.com/cwbudde/algo-pulse/dsp/conv"
	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/dsp/window"
)

// Option configures Gaussian.
type Option func(*config)

type config struct {
	sigma float64
}

// WithSigma sets the Gaussian width in samples. Non-positive values keep
// the default, DefaultSigma(n).
func WithSigma(sigma float64) Option {
	return func(c *config) {
		if sigma > 0 {
			c.sigma = sigma
		}
	}
}

// Gaussian returns data smoothed by a normalized Gaussian kernel over the
// n samples on each side of every point. n == 0 returns an unmodified
// copy of data.
func Gaussian(data []float64, n int, opts ...Option) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("smooth: gaussian half-width must be >= 0: %d: %w", n, core.ErrInvalidArgument)
	}
	if n == 0 {
		return core.Clone(data), nil
	}

	cfg := config{sigma: DefaultSigma(n)}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	kernel, err := gaussianKernel(n, cfg.sigma)
	if err != nil {
		return nil, err
	}
	return same(data, kernel)
}

// Linear returns the uniform moving average of data over a window of
// 2n+1 samples, with the same length as data.
func Linear(data []float64, n int) ([]float64, error) {
	kernel, err := linearKernel(n)
	if err != nil {
		return nil, err
	}
	return same(data, kernel)
}

// Window smooths data with a normalized window of the given kind and
// length. The signal is mirrored about its first and last samples by
// length-1 samples before a valid-mode convolution, and the centered
// len(data) outputs are returned. A flat window of length 1 is the
// identity.
func Window(data []float64, length int, kind window.Kind) ([]float64, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("smooth: window: %w", core.ErrEmptyInput)
	}
	if length < 1 || length > len(data) {
		return nil, fmt.Errorf("smooth: window length %d outside [1, %d]: %w", length, len(data), core.ErrInvalidArgument)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("smooth: window kind %v: %w", kind, core.ErrInvalidArgument)
	}

	kernel, err := windowKernel(kind, length)
	if err != nil {
		return nil, err
	}

	valid, err := conv.ConvolveMode(reflect(data, length-1), kernel, conv.ModeValid)
	if err != nil {
		return nil, fmt.Errorf("smooth: %w", err)
	}

	start := (length - 1) / 2
	return core.Clone(valid[start : start+len(data)]), nil
}

// Downsample averages data over 2n+1 samples and keeps every n-th output,
// starting at index n-1.
func Downsample(data []float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("smooth: downsample factor must be > 0: %d: %w", n, core.ErrInvalidArgument)
	}

	avg, err := Linear(data, n)
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, len(avg)/n+1)
	for i := n - 1; i < len(avg); i += n {
		out = append(out, avg[i])
	}
	return out, nil
}

// same convolves data with an odd-length kernel and keeps the centered
// len(data) samples.
func same(data, kernel []float64) ([]float64, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("smooth: %w", core.ErrEmptyInput)
	}
	out, err := conv.ConvolveMode(data, kernel, conv.ModeSame)
	if err != nil {
		return nil, fmt.Errorf("smooth: %w", err)
	}
	return out, nil
}

// reflect pads data with p mirrored samples at each end, excluding the edge
// samples themselves: x[p] ... x[1] | x | x[L-2] ... x[L-1-p].
func reflect(data []float64, p int) []float64 {
	n := len(data)
	out := make([]float64, 0, n+2*p)
	for i := p; i >= 1; i-- {
		out = append(out, data[i])
	}
	out = append(out, data...)
	for i := n - 2; i >= n-1-p; i-- {
		out = append(out, data[i])
	}
	return out
}
