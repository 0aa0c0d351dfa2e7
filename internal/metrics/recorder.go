package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultSkipped  ResultLabel = "skipped"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for generation runs and their stages.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveRunDuration(d time.Duration)
	// IncRunOutcome counts a finished run by document source (generated|fallback)
	// and the failure reason that forced a fallback ("" for generated runs).
	IncRunOutcome(source, reason string)
	ObserveFetchDuration(d time.Duration, success bool)
	ObserveGenerationDuration(provider string, d time.Duration, success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)            {}
func (NoopRecorder) IncStageResult(string, ResultLabel)                    {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                      {}
func (NoopRecorder) IncRunOutcome(string, string)                          {}
func (NoopRecorder) ObserveFetchDuration(time.Duration, bool)              {}
func (NoopRecorder) ObserveGenerationDuration(string, time.Duration, bool) {}
