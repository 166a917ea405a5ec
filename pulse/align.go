package pulse

import (
	"fmt"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/dsp/interp"
)

// Reference returns the index of the shot with the smallest peak field.
// Ties go to the earliest shot. Every shot must be segmented.
func Reference(shots []*Shot) (int, error) {
	if len(shots) == 0 {
		return 0, fmt.Errorf("pulse: align: no shots: %w", core.ErrEmptyInput)
	}

	ref := -1
	for i, s := range shots {
		if s == nil || !s.Segmented() {
			return 0, fmt.Errorf("pulse: align: shot %d is not segmented: %w", i, core.ErrInvalidArgument)
		}
		if ref < 0 || s.Peak.Max < shots[ref].Peak.Max {
			ref = i
		}
	}
	return ref, nil
}

// Align resamples the named channels of every shot onto the field grid of
// the reference shot, the one with the smallest peak field, and returns the
// reference index.
//
// The rising branch of a channel is interpolated against |B_rising| of its
// own shot. The falling branch is reversed first, because |B| decreases
// along it and the interpolation needs ascending positions. The field is
// resampled last, against itself, since every other channel uses the
// original field as its positions. Resistances are then recomputed.
//
// The reference shot is only read until every other shot is done; finally
// its field branches are replaced by their magnitudes, which are the
// canonical axes. On error no shot is modified.
func Align(shots []*Shot, names []string) (int, error) {
	ref, err := Reference(shots)
	if err != nil {
		return 0, err
	}

	refField, err := shots[ref].Branches(Field)
	if err != nil {
		return 0, err
	}
	axis := &Branch{
		Rising:  core.Abs(refField.Rising),
		Falling: core.Abs(refField.Falling),
	}

	staged := make([]*Shot, len(shots))
	for i, s := range shots {
		if i == ref {
			continue
		}
		next, err := stage(s, axis, names)
		if err != nil {
			return 0, fmt.Errorf("pulse: align: shot %d (%s): %w", i, s.Source, err)
		}
		staged[i] = next
	}

	for i, s := range shots {
		if i == ref {
			continue
		}
		s.Segments = staged[i].Segments
		s.Rxx, s.Rxy = staged[i].Rxx, staged[i].Rxy
		s.Aligned = true
	}

	shots[ref].Segments[Field] = axis
	shots[ref].Aligned = true

	return ref, nil
}

// stage returns the segments and resistances s will have once aligned onto
// axis. Nothing in s is modified.
func stage(s *Shot, axis *Branch, names []string) (*Shot, error) {
	resampled, err := resample(s, axis, names)
	if err != nil {
		return nil, err
	}

	next := &Shot{Source: s.Source, Segments: make(map[string]*Branch, len(s.Segments))}
	for name, seg := range s.Segments {
		next.Segments[name] = seg
	}
	for name, seg := range resampled {
		next.Segments[name] = seg
	}
	if err := DeriveResistance(next); err != nil {
		return nil, err
	}
	return next, nil
}

// resample interpolates the named channels of s, then its field, onto
// axis.
func resample(s *Shot, axis *Branch, names []string) (map[string]*Branch, error) {
	field, err := s.Branches(Field)
	if err != nil {
		return nil, err
	}

	// positions: ascending |B| along each branch
	rising := core.Abs(field.Rising)
	falling := core.Abs(core.Reversed(field.Falling))

	out := make(map[string]*Branch, len(names)+1)
	for _, name := range names {
		if name == Field {
			continue
		}
		seg, err := s.Branches(name)
		if err != nil {
			return nil, err
		}
		if out[name], err = onto(axis, rising, falling, seg.Rising, core.Reversed(seg.Falling)); err != nil {
			return nil, fmt.Errorf("channel %q: %w", name, err)
		}
	}

	if out[Field], err = onto(axis, rising, falling, rising, falling); err != nil {
		return nil, fmt.Errorf("channel %q: %w", Field, err)
	}
	return out, nil
}

func onto(axis *Branch, risingPos, fallingPos, risingVal, fallingVal []float64) (*Branch, error) {
	r, err := interp.Linear(axis.Rising, risingPos, risingVal)
	if err != nil {
		return nil, fmt.Errorf("rising: %w", err)
	}
	f, err := interp.Linear(axis.Falling, fallingPos, fallingVal)
	if err != nil {
		return nil, fmt.Errorf("falling: %w", err)
	}
	return &Branch{Rising: r, Falling: f}, nil
}
