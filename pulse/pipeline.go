package pulse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/dsp/window"
	"github.com/cwbudde/algo-pulse/stats/series"
)

// Stage names reported to an Observer.
const (
	StageDownsample = "downsample"
	StageSmooth     = "smooth"
	StageGaussian   = "gaussian"
	StageSegment    = "segment"
	StageAlign      = "align"
)

// PipelineConfig holds every parameter of a run. Zero values disable the
// optional conditioning stages.
type PipelineConfig struct {
	// Channels are the channels segmented and aligned. The field channel is
	// always included.
	Channels []string

	// Threshold is the field value the branches are cut at.
	Threshold float64

	// DownsampleFactor > 1 downsamples the field and every channel in
	// Channels together.
	DownsampleFactor int

	// WindowLength > 1 smooths the Smoothed channels with Window.
	WindowLength int
	Window       window.Kind

	// GaussianWidth > 0 applies a Gaussian average of that half-width to
	// the Smoothed channels. GaussianSigma <= 0 selects the default width.
	GaussianWidth int
	GaussianSigma float64

	// Smoothed lists the channels the smoothing stages apply to. Empty
	// means the field and all of Channels.
	Smoothed []string
}

// DefaultPipelineConfig returns the configuration used when none is given:
// the five standard channels, a 0.05 threshold and an 11-sample Hanning
// window.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Channels:     []string{Field, FieldRate, LongitudinalVoltage, HallVoltage, Current},
		Threshold:    DefaultThreshold,
		WindowLength: 11,
		Window:       window.Hanning,
	}
}

// Validate reports the first invalid parameter.
func (c PipelineConfig) Validate() error {
	switch {
	case c.DownsampleFactor < 0:
		return fmt.Errorf("pulse: downsample factor must be >= 0: %d: %w", c.DownsampleFactor, core.ErrInvalidArgument)
	case c.WindowLength < 0:
		return fmt.Errorf("pulse: window length must be >= 0: %d: %w", c.WindowLength, core.ErrInvalidArgument)
	case c.WindowLength > 1 && !c.Window.Valid():
		return fmt.Errorf("pulse: window kind %v: %w", c.Window, core.ErrInvalidArgument)
	case c.GaussianWidth < 0:
		return fmt.Errorf("pulse: gaussian width must be >= 0: %d: %w", c.GaussianWidth, core.ErrInvalidArgument)
	}
	return nil
}

// channels returns the field followed by Channels without repeats.
func (c PipelineConfig) channels() []string {
	out := make([]string, 0, len(c.Channels)+1)
	seen := make(map[string]bool, len(c.Channels)+1)
	for _, name := range append([]string{Field}, c.Channels...) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func (c PipelineConfig) smoothed() []string {
	if len(c.Smoothed) > 0 {
		return c.Smoothed
	}
	return c.channels()
}

// Observer receives the outcome of every pipeline stage.
type Observer interface {
	ObserveStage(stage string, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveStage(string, time.Duration, error) {}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithObserver sets the stage observer.
func WithObserver(o Observer) PipelineOption {
	return func(p *Pipeline) {
		if o != nil {
			p.obs = o
		}
	}
}

// Pipeline conditions, segments and aligns a collection of shots.
type Pipeline struct {
	cfg PipelineConfig
	log *slog.Logger
	obs Observer
}

// NewPipeline validates cfg and returns a Pipeline.
func NewPipeline(cfg PipelineConfig, opts ...PipelineOption) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg: cfg,
		log: slog.New(slog.DiscardHandler),
		obs: nopObserver{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Prepare conditions and segments a single shot.
func (p *Pipeline) Prepare(shot *Shot) error {
	log := p.log.With(slog.String("shot", shot.Source))

	if n := p.cfg.DownsampleFactor; n > 1 {
		if err := p.stage(StageDownsample, func() error { return shot.Downsample(n, p.cfg.channels()...) }); err != nil {
			return err
		}
		log.Debug("downsampled", slog.Int("factor", n), slog.Int("samples", len(shot.Channels[Field])))
	}

	if n := p.cfg.WindowLength; n > 1 {
		if err := p.stage(StageSmooth, func() error { return shot.Smooth(n, p.cfg.Window, p.cfg.smoothed()...) }); err != nil {
			return err
		}
		log.Debug("smoothed", slog.Int("length", n), slog.String("window", p.cfg.Window.String()))
	}

	if n := p.cfg.GaussianWidth; n > 0 {
		if err := p.stage(StageGaussian, func() error { return shot.GaussianSmooth(n, p.cfg.GaussianSigma, p.cfg.smoothed()...) }); err != nil {
			return err
		}
		log.Debug("gaussian smoothed", slog.Int("width", n))
	}

	err := p.stage(StageSegment, func() error {
		_, err := Segment(shot, p.cfg.Channels, WithThreshold(p.cfg.Threshold))
		return err
	})
	if err != nil {
		return err
	}

	summary, err := series.Summarize(shot.Channels[Field])
	if err != nil {
		return err
	}
	field := shot.Segments[Field]
	log.Info("segmented",
		slog.Float64("b_max", shot.Peak.Max),
		slog.Int("index_max", shot.Peak.Index),
		slog.Float64("field_mean", summary.Mean),
		slog.Float64("field_rms", summary.RMS),
		slog.Int("rising", len(field.Rising)),
		slog.Int("falling", len(field.Falling)))
	if len(field.Rising) == 0 || len(field.Falling) == 0 {
		log.Warn("empty field branch; threshold may not be bracketed", slog.Float64("threshold", p.cfg.Threshold))
	}
	return nil
}

// Run prepares every shot and aligns the collection. It returns the index
// of the reference shot. ctx is checked between shots.
func (p *Pipeline) Run(ctx context.Context, shots []*Shot) (int, error) {
	for i, shot := range shots {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := p.Prepare(shot); err != nil {
			return 0, fmt.Errorf("shot %d: %w", i, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var ref int
	err := p.stage(StageAlign, func() error {
		var err error
		ref, err = Align(shots, p.cfg.Channels)
		return err
	})
	if err != nil {
		return 0, err
	}

	p.log.Info("aligned",
		slog.Int("shots", len(shots)),
		slog.Int("reference", ref),
		slog.String("reference_source", shots[ref].Source),
		slog.Float64("b_max", shots[ref].Peak.Max))
	return ref, nil
}

func (p *Pipeline) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	p.obs.ObserveStage(name, time.Since(start), err)
	if err != nil {
		p.log.Error("stage failed", slog.String("stage", name), slog.Any("error", err))
	}
	return err
}
