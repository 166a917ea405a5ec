// Package testutil provides deterministic test signals and tolerance
// assertions shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// FieldPulse generates a single-polarity field pulse of the given length that
// rises monotonically from 0 to peak at sample peakAt and decays
// monotonically back to 0 at the last sample. The rising edge follows a
// quarter sine, the falling edge a quarter cosine, so the two branches have
// different durations like a capacitor-bank discharge.
func FieldPulse(length, peakAt int, peak float64) []float64 {
	out := make([]float64, length)
	if length == 0 {
		return out
	}
	peakAt = min(max(peakAt, 0), length-1)
	for i := range out {
		switch {
		case i <= peakAt && peakAt > 0:
			out[i] = peak * math.Sin(0.5*math.Pi*float64(i)/float64(peakAt))
		case i <= peakAt:
			out[i] = peak
		default:
			tail := float64(length - 1 - peakAt)
			out[i] = peak * math.Cos(0.5*math.Pi*float64(i-peakAt)/tail)
		}
	}
	return out
}

// Affine returns scale*x + offset for every element of x.
func Affine(x []float64, scale, offset float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = scale*v + offset
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Ramp generates 0, 1, 2, ... length-1.
func Ramp(length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}
