package pulse

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/dsp/window"
	"github.com/cwbudde/algo-pulse/internal/testutil"
)

type stageRecord struct {
	stage string
	err   error
}

type recordingObserver struct {
	mu      sync.Mutex
	records []stageRecord
}

func (r *recordingObserver) ObserveStage(stage string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, stageRecord{stage, err})
}

func (r *recordingObserver) stages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.stage
	}
	return out
}

func pipelineShot(t *testing.T, source string, length, peakAt int, peak float64) *Shot {
	t.Helper()
	b := testutil.FieldPulse(length, peakAt, peak)
	s := newTestShot(t, source, b,
		testutil.Affine(b, 0.5, 0.01),
		testutil.Affine(b, -2, 0),
		testutil.Affine(b, 1, 1))
	s.Set(FieldRate, testutil.DeterministicNoise(7, 0.01, length))
	return s
}

func TestPipelineRun(t *testing.T) {
	obs := &recordingObserver{}
	p, err := NewPipeline(DefaultPipelineConfig(), WithObserver(obs))
	require.NoError(t, err)

	shots := []*Shot{
		pipelineShot(t, "big", 400, 150, 0.1),
		pipelineShot(t, "small", 300, 100, 0.08),
	}
	ref, err := p.Run(context.Background(), shots)
	require.NoError(t, err)
	assert.Equal(t, 1, ref)

	assert.Equal(t, []string{
		StageSmooth, StageSegment,
		StageSmooth, StageSegment,
		StageAlign,
	}, obs.stages())

	refField := shots[ref].Segments[Field]
	for _, s := range shots {
		assert.True(t, s.Aligned)
		for _, name := range DefaultPipelineConfig().Channels {
			assert.Len(t, s.Segments[name].Rising, len(refField.Rising), "%s %s", s.Source, name)
			assert.Len(t, s.Segments[name].Falling, len(refField.Falling), "%s %s", s.Source, name)
		}
		require.NotNil(t, s.Rxx)
		require.NotNil(t, s.Rxy)
	}
	for _, v := range refField.Rising {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestPipelineConditioningStages(t *testing.T) {
	cfg := DefaultPipelineConfig()
	cfg.DownsampleFactor = 2
	cfg.WindowLength = 5
	cfg.Window = window.Blackman
	cfg.GaussianWidth = 2
	cfg.Smoothed = []string{Field, LongitudinalVoltage}

	obs := &recordingObserver{}
	p, err := NewPipeline(cfg, WithObserver(obs))
	require.NoError(t, err)

	shot := pipelineShot(t, "conditioned", 400, 150, 0.1)
	require.NoError(t, p.Prepare(shot))

	assert.Equal(t, []string{StageDownsample, StageSmooth, StageGaussian, StageSegment}, obs.stages())
	for _, name := range cfg.Channels {
		assert.Len(t, shot.Channels[name], 200, name)
	}
	assert.True(t, shot.Segmented())
}

func TestPipelineStageFailureIsObserved(t *testing.T) {
	obs := &recordingObserver{}
	p, err := NewPipeline(DefaultPipelineConfig(), WithObserver(obs))
	require.NoError(t, err)

	shot := newTestShot(t, "partial", testutil.FieldPulse(64, 20, 0.1), nil, nil, nil)
	err = p.Prepare(shot)
	require.ErrorIs(t, err, core.ErrInvalidArgument)

	require.Len(t, obs.records, 1)
	assert.Equal(t, StageSmooth, obs.records[0].stage)
	require.Error(t, obs.records[0].err)
}

func TestPipelineRunCanceled(t *testing.T) {
	obs := &recordingObserver{}
	p, err := NewPipeline(DefaultPipelineConfig(), WithObserver(obs))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Run(ctx, []*Shot{pipelineShot(t, "a", 100, 40, 0.1)})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, obs.stages())
}

func TestPipelineRunNoShots(t *testing.T) {
	p, err := NewPipeline(DefaultPipelineConfig())
	require.NoError(t, err)

	_, err = p.Run(context.Background(), nil)
	require.ErrorIs(t, err, core.ErrEmptyInput)
}

func TestPipelineLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := DefaultPipelineConfig()
	cfg.Threshold = 0.5
	p, err := NewPipeline(cfg, WithLogger(logger))
	require.NoError(t, err)

	// a 0.1 pulse never reaches 0.5, so the falling branch is empty
	shot := pipelineShot(t, "quiet", 200, 80, 0.1)
	require.NoError(t, p.Prepare(shot))

	out := buf.String()
	assert.Contains(t, out, "msg=smoothed")
	assert.Contains(t, out, "msg=segmented")
	assert.Contains(t, out, "field_rms=")
	assert.Contains(t, out, "field_mean=")
	assert.Contains(t, out, "shot=quiet")
	assert.Contains(t, out, "empty field branch")
}

func TestPipelineConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*PipelineConfig)
	}{
		{"negative downsample", func(c *PipelineConfig) { c.DownsampleFactor = -1 }},
		{"negative window", func(c *PipelineConfig) { c.WindowLength = -3 }},
		{"unknown window", func(c *PipelineConfig) { c.Window = window.Kind(99) }},
		{"negative gaussian", func(c *PipelineConfig) { c.GaussianWidth = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPipelineConfig()
			tt.modify(&cfg)
			_, err := NewPipeline(cfg)
			require.ErrorIs(t, err, core.ErrInvalidArgument)
		})
	}

	require.NoError(t, DefaultPipelineConfig().Validate())
}

func TestPipelineFieldFollowsChannels(t *testing.T) {
	cfg := DefaultPipelineConfig()
	cfg.Channels = []string{LongitudinalVoltage, Current}
	cfg.DownsampleFactor = 2

	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	shots := []*Shot{
		pipelineShot(t, "a", 400, 150, 0.1),
		pipelineShot(t, "b", 300, 100, 0.08),
	}
	ref, err := p.Run(context.Background(), shots)
	require.NoError(t, err)
	assert.Equal(t, 1, ref)

	a := shots[0]
	assert.Len(t, a.Channels[Field], 200)
	assert.Len(t, a.Channels[LongitudinalVoltage], 200)
	// channels outside the configuration are left alone
	assert.Len(t, a.Channels[HallVoltage], 400)

	refField := shots[ref].Segments[Field]
	assert.Len(t, a.Segments[LongitudinalVoltage].Rising, len(refField.Rising))
	assert.Len(t, a.Segments[Current].Falling, len(refField.Falling))
	require.NotNil(t, a.Rxx)
	assert.Nil(t, a.Rxy)
}
