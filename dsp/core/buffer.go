package core

import "math"

// Clone returns a copy of buf that shares no memory with it.
// A nil slice stays nil.
func Clone(buf []float64) []float64 {
	if buf == nil {
		return nil
	}
	out := make([]float64, len(buf))
	copy(out, buf)
	return out
}

// Reversed returns a reversed copy of buf.
func Reversed(buf []float64) []float64 {
	out := make([]float64, len(buf))
	for i, v := range buf {
		out[len(buf)-1-i] = v
	}
	return out
}

// Abs returns a copy of buf with every element replaced by its magnitude.
func Abs(buf []float64) []float64 {
	out := make([]float64, len(buf))
	for i, v := range buf {
		out[i] = math.Abs(v)
	}
	return out
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}
