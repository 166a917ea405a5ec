package observability

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pulse/pulse"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.ShotLoaded()
	m.ShotLoaded()
	m.ObserveStage(pulse.StageSegment, time.Millisecond, nil)
	m.ObserveStage(pulse.StageSegment, time.Millisecond, errors.New("boom"))
	m.ObserveStage(pulse.StageSmooth, 2*time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.loaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.segmented))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues(pulse.StageSegment)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))

	want := `
# HELP pulse_shots_loaded_total Shots read from disk.
# TYPE pulse_shots_loaded_total counter
pulse_shots_loaded_total 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(want), shotsLoadedName))
}

func TestMetricsSummary(t *testing.T) {
	m := NewMetrics()
	m.ShotLoaded()
	m.ObserveStage(pulse.StageSmooth, 10*time.Millisecond, nil)
	m.ObserveStage(pulse.StageSegment, 20*time.Millisecond, nil)
	m.ObserveStage(pulse.StageAlign, 5*time.Millisecond, errors.New("mismatch"))

	s, err := m.Summary()
	require.NoError(t, err)

	assert.Equal(t, 1.0, s.ShotsLoaded)
	assert.Equal(t, 1.0, s.ShotsSegmented)
	require.Len(t, s.Stages, 3)

	assert.Equal(t, pulse.StageAlign, s.Stages[0].Stage)
	assert.Equal(t, uint64(1), s.Stages[0].Count)
	assert.Equal(t, 1.0, s.Stages[0].Errors)

	assert.Equal(t, pulse.StageSegment, s.Stages[1].Stage)
	assert.InDelta(t, 0.02, s.Stages[1].Seconds, 1e-9)
	assert.Zero(t, s.Stages[1].Errors)

	assert.Equal(t, pulse.StageSmooth, s.Stages[2].Stage)
}

func TestMetricsAsPipelineObserver(t *testing.T) {
	m := NewMetrics()
	p, err := pulse.NewPipeline(pulse.PipelineConfig{Channels: []string{pulse.Field}, Threshold: 0.05},
		pulse.WithObserver(m))
	require.NoError(t, err)

	shot := pulse.NewShot("a")
	shot.Set(pulse.Field, []float64{0, 0.05, 0.1, 0.05, 0})
	require.NoError(t, p.Prepare(shot))

	s, err := m.Summary()
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.ShotsSegmented)
	require.Len(t, s.Stages, 1)
	assert.Equal(t, pulse.StageSegment, s.Stages[0].Stage)
}

func TestMetricsEmptySummary(t *testing.T) {
	s, err := NewMetrics().Summary()
	require.NoError(t, err)
	assert.Zero(t, s.ShotsLoaded)
	assert.Empty(t, s.Stages)
}
