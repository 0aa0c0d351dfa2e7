package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "gitscriptor"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg                *prom.Registry
	stageDuration      *prom.HistogramVec
	stageResults       *prom.CounterVec
	runDuration        prom.Histogram
	runOutcomes        *prom.CounterVec
	fetchDuration      *prom.HistogramVec
	generationDuration *prom.HistogramVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual pipeline stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "stage_results_total",
		Help:      "Stage result counts by outcome",
	}, []string{"stage", "result"})
	pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Total duration of one README generation run",
		Buckets:   prom.DefBuckets,
	})
	pr.runOutcomes = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "run_outcomes_total",
		Help:      "Finished runs by document source and fallback reason",
	}, []string{"source", "reason"})
	pr.fetchDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Duration of repository clone operations",
		Buckets:   prom.DefBuckets,
	}, []string{"result"})
	pr.generationDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "generation_duration_seconds",
		Help:      "Duration of generation backend calls",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
	}, []string{"provider", "result"})
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.runDuration, pr.runOutcomes, pr.fetchDuration, pr.generationDuration)
	return pr
}

// Registry returns the registry the collectors are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(source, reason string) {
	if p == nil || p.runOutcomes == nil {
		return
	}
	if reason == "" {
		reason = "none"
	}
	p.runOutcomes.WithLabelValues(source, reason).Inc()
}

func (p *PrometheusRecorder) ObserveFetchDuration(d time.Duration, success bool) {
	if p == nil || p.fetchDuration == nil {
		return
	}
	p.fetchDuration.WithLabelValues(resultLabel(success)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveGenerationDuration(provider string, d time.Duration, success bool) {
	if p == nil || p.generationDuration == nil {
		return
	}
	p.generationDuration.WithLabelValues(provider, resultLabel(success)).Observe(d.Seconds())
}

// WriteTextfile writes the registry to path in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}
