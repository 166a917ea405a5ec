package pulse

import (
	"fmt"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/stats/series"
)

// DefaultThreshold is the field value, in channel units, at which the
// branches are cut.
const DefaultThreshold = 0.05

// SegmentOption configures Segment.
type SegmentOption func(*segmentConfig)

type segmentConfig struct {
	threshold float64
}

// WithThreshold sets the field value the branches are cut at.
func WithThreshold(threshold float64) SegmentOption {
	return func(c *segmentConfig) {
		c.threshold = threshold
	}
}

// Segment locates the field maximum of shot and splits every named channel
// into a rising branch, from the rising sample nearest the threshold up to
// the maximum, and a falling branch, from the maximum up to the falling
// sample nearest the threshold. The field channel is always segmented.
// Rxx and Rxy are derived afterwards where their operands exist.
//
// The cut points are nearest-sample matches, not crossings: a branch that
// never reaches the threshold is cut at its closest sample. Callers should
// check the branch lengths before trusting the derived resistances.
func Segment(shot *Shot, names []string, opts ...SegmentOption) (*Shot, error) {
	cfg := segmentConfig{threshold: DefaultThreshold}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	b, err := shot.Channel(Field)
	if err != nil {
		return shot, err
	}

	bMax, indexMax, err := series.PeakAbs(b)
	if err != nil {
		return shot, fmt.Errorf("pulse: shot %q field: %w", shot.Source, err)
	}

	riseStart := 0
	if indexMax > 0 {
		riseStart, _ = series.Nearest(b[:indexMax], cfg.threshold)
	}
	// the suffix holds at least the peak sample
	fallOffset, _ := series.Nearest(b[indexMax:], cfg.threshold)

	segments := make(map[string]*Branch, len(names)+1)
	for _, name := range append([]string{Field}, names...) {
		ch, err := shot.Channel(name)
		if err != nil {
			return shot, err
		}
		segments[name] = &Branch{
			Rising:  slice(ch, riseStart, indexMax),
			Falling: slice(ch, indexMax, indexMax+fallOffset),
		}
	}

	shot.Peak = &Peak{Max: bMax, Index: indexMax}
	shot.Segments = segments

	if err := DeriveResistance(shot); err != nil {
		return shot, err
	}
	return shot, nil
}

// DeriveResistance sets Rxx = Vxx/I and Rxy = Vxy/I for both branches from
// the current segments. A resistance whose voltage or current was not
// segmented is left nil.
func DeriveResistance(shot *Shot) error {
	current, ok := shot.Segments[Current]
	if !ok {
		shot.Rxx, shot.Rxy = nil, nil
		return nil
	}

	for _, r := range []struct {
		voltage string
		dst     **Branch
	}{
		{LongitudinalVoltage, &shot.Rxx},
		{HallVoltage, &shot.Rxy},
	} {
		v, ok := shot.Segments[r.voltage]
		if !ok {
			*r.dst = nil
			continue
		}
		res, err := divideSegments(v, current)
		if err != nil {
			return fmt.Errorf("pulse: shot %q %s/%s: %w", shot.Source, r.voltage, Current, err)
		}
		*r.dst = res
	}
	return nil
}

func divideSegments(num, den *Branch) (*Branch, error) {
	rising, err := divide(num.Rising, den.Rising)
	if err != nil {
		return nil, fmt.Errorf("rising: %w", err)
	}
	falling, err := divide(num.Falling, den.Falling)
	if err != nil {
		return nil, fmt.Errorf("falling: %w", err)
	}
	return &Branch{Rising: rising, Falling: falling}, nil
}

// divide returns a/b element-wise. Zero divisors yield ±Inf or NaN.
func divide(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%d samples over %d: %w", len(a), len(b), core.ErrShapeMismatch)
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] / b[i]
	}
	return out, nil
}

// slice copies ch[lo:hi] with both bounds clamped to len(ch).
func slice(ch []float64, lo, hi int) []float64 {
	hi = core.ClampIndex(hi, len(ch))
	lo = min(core.ClampIndex(lo, len(ch)), hi)
	out := make([]float64, hi-lo)
	copy(out, ch[lo:hi])
	return out
}
