package load

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/pulse"
)

var errInvalidWAV = errors.New("load: not a valid WAV file")

// ReadWAV reads a PCM WAV file and stores its channel i, scaled to [-1, 1]
// by the bit depth and divided by params[i].Gain, as channel
// params[i].Name. The file must have at least len(params) channels.
func ReadWAV(r io.ReadSeeker, params []Param) (*pulse.Shot, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, errInvalidWAV
	}

	chans := int(dec.NumChans)
	if len(params) > chans {
		return nil, fmt.Errorf("load: %d channels requested from a %d channel file: %w", len(params), chans, core.ErrShapeMismatch)
	}
	divisor, err := fullScale(int(dec.BitDepth))
	if err != nil {
		return nil, err
	}

	samples := make([][]float64, chans)
	buf := &audio.IntBuffer{
		Data:   make([]int, 4096*chans),
		Format: &audio.Format{SampleRate: int(dec.SampleRate), NumChannels: chans},
	}
	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return nil, fmt.Errorf("load: wav: %w", err)
		}
		if n == 0 {
			break
		}
		// frames are interleaved
		for i, v := range buf.Data[:n] {
			c := i % chans
			samples[c] = append(samples[c], float64(v)/divisor)
		}
	}
	if len(samples[0]) == 0 {
		return nil, fmt.Errorf("load: wav: no samples: %w", core.ErrEmptyInput)
	}

	shot := pulse.NewShot("")
	for i, p := range params {
		store(shot, p, samples[i])
	}
	return shot, nil
}

func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16, 24, 32:
		return float64(int64(1) << (bitDepth - 1)), nil
	}
	return 0, fmt.Errorf("load: unsupported bit depth %d: %w", bitDepth, core.ErrInvalidArgument)
}
