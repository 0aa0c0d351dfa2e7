package pipeline

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
	"git.home.luguber.info/inful/gitscriptor/internal/logfields"
	"git.home.luguber.info/inful/gitscriptor/internal/metrics"
	"git.home.luguber.info/inful/gitscriptor/internal/observability"
)

// StageName is a strongly-typed identifier for a run stage.
type StageName string

const (
	StageFetching          StageName = "fetching"
	StageAnalyzing         StageName = "analyzing"
	StageBuildingContext   StageName = "building_context"
	StageComposing         StageName = "composing"
	StageGenerating        StageName = "generating"
	StageFallbackRendering StageName = "fallback_rendering"
	StageDone              StageName = "done"
)

// Stage is a discrete unit of work in one run.
type Stage func(ctx context.Context, rs *runState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// StageErrorKind classifies why a stage stopped the run.
type StageErrorKind string

const (
	StageErrorFailed   StageErrorKind = "failed"
	StageErrorCanceled StageErrorKind = "canceled"
)

// StageError records which stage ended the primary path and why.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// StageTiming is the recorded outcome of one executed (or skipped) stage.
type StageTiming struct {
	Name     StageName           `yaml:"name"`
	Duration time.Duration       `yaml:"duration"`
	Result   metrics.ResultLabel `yaml:"result"`
}

// runStages executes stages in order and stops at the first failure. Stages
// after the failing one are recorded as skipped.
func runStages(ctx context.Context, rs *runState, stages []StageDef) *StageError {
	rec := rs.recorder
	for i, st := range stages {
		select {
		case <-ctx.Done():
			se := &StageError{Kind: StageErrorCanceled, Stage: st.Name, Err: ctx.Err()}
			rs.record(st.Name, 0, metrics.ResultCanceled)
			rs.skip(stages[i+1:])
			return se
		default:
		}

		sctx := observability.WithStage(ctx, string(st.Name))
		observability.DebugContext(sctx, "Stage started")
		t0 := time.Now()
		err := invoke(sctx, rs, st)
		dur := time.Since(t0)
		rec.ObserveStageDuration(string(st.Name), dur)

		if err == nil {
			rs.record(st.Name, dur, metrics.ResultSuccess)
			observability.DebugContext(sctx, "Stage completed", logfields.Elapsed(dur))
			continue
		}

		kind, result := StageErrorFailed, metrics.ResultFailed
		if ctx.Err() != nil {
			kind, result = StageErrorCanceled, metrics.ResultCanceled
		}
		rs.record(st.Name, dur, result)
		rs.skip(stages[i+1:])
		observability.WarnContext(sctx, "Stage failed",
			logfields.Elapsed(dur),
			logfields.Reason(string(errors.ReasonOf(err))),
			logfields.Error(err))
		return &StageError{Kind: kind, Stage: st.Name, Err: err}
	}
	return nil
}

// invoke runs one stage and converts a panic into a classified internal error.
func invoke(ctx context.Context, rs *runState, st StageDef) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.InternalError(fmt.Sprintf("stage %s panicked", st.Name)).
				WithReason(errors.ReasonStagePanic).
				WithContext("panic", fmt.Sprint(r)).
				Build()
		}
	}()
	return st.Fn(ctx, rs)
}
