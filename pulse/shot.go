package pulse

import (
	"fmt"
	"sort"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/dsp/smooth"
	"github.com/cwbudde/algo-pulse/dsp/window"
)

// Channel names with a fixed meaning in the pipeline.
const (
	Field               = "B"
	FieldRate           = "Bdot"
	LongitudinalVoltage = "Vxx"
	HallVoltage         = "Vxy"
	Current             = "I"
)

// Peak locates the field maximum of a shot.
type Peak struct {
	Max   float64 // max |B|
	Index int     // first sample index of Max
}

// Branch is one channel split at the field maximum into its rising and
// falling parts.
type Branch struct {
	Rising  []float64
	Falling []float64
}

// Shot is the record of one pulse.
type Shot struct {
	// Source names where the channels came from, typically a file path.
	Source string

	// Channels maps a channel name to its samples.
	Channels map[string][]float64

	// Peak is set by Segment.
	Peak *Peak

	// Segments maps a channel name to its branches; set by Segment and
	// resampled by Align.
	Segments map[string]*Branch

	// Rxx and Rxy are Vxx/I and Vxy/I per branch. Each stays nil unless
	// its voltage and the current were segmented.
	Rxx *Branch
	Rxy *Branch

	// Aligned is set by Align on every shot of the collection.
	Aligned bool
}

// NewShot returns an empty shot.
func NewShot(source string) *Shot {
	return &Shot{Source: source, Channels: make(map[string][]float64)}
}

// Set stores a copy of data as channel name.
func (s *Shot) Set(name string, data []float64) {
	if s.Channels == nil {
		s.Channels = make(map[string][]float64)
	}
	s.Channels[name] = core.Clone(data)
}

// Channel returns the samples of channel name.
func (s *Shot) Channel(name string) ([]float64, error) {
	ch, ok := s.Channels[name]
	if !ok {
		return nil, fmt.Errorf("pulse: shot %q has no channel %q: %w", s.Source, name, core.ErrInvalidArgument)
	}
	return ch, nil
}

// Names returns the channel names in sorted order.
func (s *Shot) Names() []string {
	names := make([]string, 0, len(s.Channels))
	for name := range s.Channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Branches returns the segment of channel name.
func (s *Shot) Branches(name string) (*Branch, error) {
	if s.Segments == nil {
		return nil, fmt.Errorf("pulse: shot %q is not segmented: %w", s.Source, core.ErrInvalidArgument)
	}
	seg, ok := s.Segments[name]
	if !ok {
		return nil, fmt.Errorf("pulse: shot %q has no segment %q: %w", s.Source, name, core.ErrInvalidArgument)
	}
	return seg, nil
}

// Segmented reports whether Segment has run on the shot.
func (s *Shot) Segmented() bool {
	return s.Peak != nil && s.Segments != nil
}

// Downsample replaces each named channel by its n-fold downsampled
// average. Channels that share a time base must be downsampled together.
func (s *Shot) Downsample(n int, names ...string) error {
	return s.transform(names, func(ch []float64) ([]float64, error) {
		return smooth.Downsample(ch, n)
	})
}

// Smooth replaces each named channel by its windowed average.
func (s *Shot) Smooth(length int, kind window.Kind, names ...string) error {
	return s.transform(names, func(ch []float64) ([]float64, error) {
		return smooth.Window(ch, length, kind)
	})
}

// GaussianSmooth replaces each named channel by its Gaussian average over
// n samples on each side. sigma <= 0 selects smooth.DefaultSigma(n).
func (s *Shot) GaussianSmooth(n int, sigma float64, names ...string) error {
	return s.transform(names, func(ch []float64) ([]float64, error) {
		return smooth.Gaussian(ch, n, smooth.WithSigma(sigma))
	})
}

// transform computes every replacement before storing any, so a failing
// channel leaves the shot untouched.
func (s *Shot) transform(names []string, fn func([]float64) ([]float64, error)) error {
	out := make(map[string][]float64, len(names))
	for _, name := range names {
		ch, err := s.Channel(name)
		if err != nil {
			return err
		}
		res, err := fn(ch)
		if err != nil {
			return fmt.Errorf("pulse: channel %q: %w", name, err)
		}
		out[name] = res
	}
	for name, res := range out {
		s.Channels[name] = res
	}
	return nil
}
