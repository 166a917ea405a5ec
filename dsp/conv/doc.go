// Package conv provides the linear convolution used by the smoothing kernels.
//
// Two strategies are available:
//
//   - Direct convolution: O(N*M) time-domain convolution, best for short kernels
//   - Overlap-add (OLA): FFT-based block convolution for long kernels
//
// # Usage
//
//	full, err := conv.Convolve(signal, kernel)              // auto-selects the algorithm
//	same, err := conv.ConvolveMode(signal, kernel, conv.ModeSame)
//
// # Output modes
//
// [ModeFull] returns all len(a)+len(b)-1 samples. [ModeSame] returns the
// centered len(a) samples, which is what an edge-padded moving average
// needs. [ModeValid] keeps only the samples where both inputs fully
// overlap.
//
// # Algorithm Selection
//
// [Convolve] uses direct convolution for kernels up to 64 samples and
// FFT-based overlap-add above that. Both paths agree to within
// floating-point rounding.
package conv
