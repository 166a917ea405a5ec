// Package observability records pipeline metrics on a private Prometheus
// registry.
package observability

import (
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/cwbudde/algo-pulse/pulse"
)

const (
	shotsLoadedName    = "pulse_shots_loaded_total"
	shotsSegmentedName = "pulse_shots_segmented_total"
	stageErrorsName    = "pulse_stage_errors_total"
	stageDurationName  = "pulse_stage_duration_seconds"
)

// Metrics implements pulse.Observer.
type Metrics struct {
	reg *prometheus.Registry

	loaded    prometheus.Counter
	segmented prometheus.Counter
	errors    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

var _ pulse.Observer = (*Metrics)(nil)

// NewMetrics returns Metrics registered on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		loaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: shotsLoadedName,
			Help: "Shots read from disk.",
		}),
		segmented: prometheus.NewCounter(prometheus.CounterOpts{
			Name: shotsSegmentedName,
			Help: "Shots split into rising and falling branches.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: stageErrorsName,
			Help: "Failed pipeline stages.",
		}, []string{"stage"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    stageDurationName,
			Help:    "Duration of pipeline stages.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"stage"}),
	}
	m.reg.MustRegister(m.loaded, m.segmented, m.errors, m.duration)
	return m
}

// Registry returns the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// ShotLoaded counts one loaded shot.
func (m *Metrics) ShotLoaded() {
	m.loaded.Inc()
}

// ObserveStage records the duration and outcome of a pipeline stage.
func (m *Metrics) ObserveStage(stage string, elapsed time.Duration, err error) {
	m.duration.WithLabelValues(stage).Observe(elapsed.Seconds())
	if err != nil {
		m.errors.WithLabelValues(stage).Inc()
		return
	}
	if stage == pulse.StageSegment {
		m.segmented.Inc()
	}
}

// StageStat aggregates one stage.
type StageStat struct {
	Stage   string
	Count   uint64
	Seconds float64
	Errors  float64
}

// Summary is a snapshot of all metrics.
type Summary struct {
	ShotsLoaded    float64
	ShotsSegmented float64
	Stages         []StageStat
}

// Summary gathers the registry into a Summary with stages sorted by name.
func (m *Metrics) Summary() (Summary, error) {
	families, err := m.reg.Gather()
	if err != nil {
		return Summary{}, fmt.Errorf("observability: gather: %w", err)
	}

	var s Summary
	stages := make(map[string]*StageStat)
	stat := func(metric *dto.Metric) *StageStat {
		name := stageLabel(metric)
		st, ok := stages[name]
		if !ok {
			st = &StageStat{Stage: name}
			stages[name] = st
		}
		return st
	}

	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch mf.GetName() {
			case shotsLoadedName:
				s.ShotsLoaded = metric.GetCounter().GetValue()
			case shotsSegmentedName:
				s.ShotsSegmented = metric.GetCounter().GetValue()
			case stageErrorsName:
				stat(metric).Errors = metric.GetCounter().GetValue()
			case stageDurationName:
				st := stat(metric)
				st.Count = metric.GetHistogram().GetSampleCount()
				st.Seconds = metric.GetHistogram().GetSampleSum()
			}
		}
	}

	for _, st := range stages {
		s.Stages = append(s.Stages, *st)
	}
	sort.Slice(s.Stages, func(i, j int) bool { return s.Stages[i].Stage < s.Stages[j].Stage })
	return s, nil
}

func stageLabel(metric *dto.Metric) string {
	for _, lp := range metric.GetLabel() {
		if lp.GetName() == "stage" {
			return lp.GetValue()
		}
	}
	return ""
}
