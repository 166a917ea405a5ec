package load

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/pulse"
)

// Param names a channel and the gain of its amplifier.
type Param struct {
	Name string  `yaml:"name"`
	Gain float64 `yaml:"gain"`
}

// Format selects a file reader.
type Format string

const (
	FormatASCII Format = "ascii"
	FormatWAV   Format = "wav"
)

// ParseFormat maps a configuration name to its Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatASCII, FormatWAV:
		return f, nil
	}
	return "", fmt.Errorf("load: unknown format %q: %w", name, core.ErrInvalidArgument)
}

// File reads the shot at path. cols is only used by FormatASCII; WAV
// channels map to params in order.
func File(path string, format Format, params []Param, cols []int) (*pulse.Shot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	defer f.Close()

	var shot *pulse.Shot
	switch format {
	case FormatASCII:
		shot, err = ReadASCII(f, params, cols)
	case FormatWAV:
		shot, err = ReadWAV(f, params)
	default:
		return nil, fmt.Errorf("load: unknown format %q: %w", format, core.ErrInvalidArgument)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	shot.Source = path
	return shot, nil
}

func validateParams(params []Param) error {
	if len(params) == 0 {
		return fmt.Errorf("load: no channels requested: %w", core.ErrEmptyInput)
	}
	for _, p := range params {
		if p.Name == "" {
			return fmt.Errorf("load: unnamed channel: %w", core.ErrInvalidArgument)
		}
		if p.Gain == 0 || math.IsNaN(p.Gain) || math.IsInf(p.Gain, 0) {
			return fmt.Errorf("load: channel %q gain %v: %w", p.Name, p.Gain, core.ErrInvalidArgument)
		}
	}
	return nil
}

// store divides data by the gain of p and stores it on shot. Field channels
// lose their NaN samples.
func store(shot *pulse.Shot, p Param, data []float64) {
	keepNaN := p.Name != pulse.Field && p.Name != pulse.FieldRate
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if math.IsNaN(v) && !keepNaN {
			continue
		}
		out = append(out, v/p.Gain)
	}
	shot.Channels[p.Name] = out
}
