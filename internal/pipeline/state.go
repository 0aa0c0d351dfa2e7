package pipeline

import (
	"context"
	"time"

	"git.home.luguber.info/inful/gitscriptor/internal/analysis"
	"git.home.luguber.info/inful/gitscriptor/internal/keyfiles"
	"git.home.luguber.info/inful/gitscriptor/internal/logfields"
	"git.home.luguber.info/inful/gitscriptor/internal/metrics"
	"git.home.luguber.info/inful/gitscriptor/internal/observability"
	"git.home.luguber.info/inful/gitscriptor/internal/style"
	"git.home.luguber.info/inful/gitscriptor/internal/workspace"
)

// runState is the mutable state threaded through the stages of one run.
type runState struct {
	gen        *Generator
	recorder   metrics.Recorder
	url        string
	name       string
	style      style.Style
	credential string

	ws       *workspace.Manager
	checkout string
	analysis *analysis.Result
	keyFiles *keyfiles.Set
	prompt   string
	markdown string

	timings []StageTiming
}

func (rs *runState) record(name StageName, d time.Duration, result metrics.ResultLabel) {
	rs.timings = append(rs.timings, StageTiming{Name: name, Duration: d, Result: result})
	rs.recorder.IncStageResult(string(name), result)
}

func (rs *runState) skip(rest []StageDef) {
	for _, st := range rest {
		rs.record(st.Name, 0, metrics.ResultSkipped)
	}
}

func (rs *runState) cleanup(ctx context.Context) {
	if err := rs.ws.Cleanup(); err != nil {
		observability.WarnContext(ctx, "Workspace cleanup failed", logfields.Error(err))
	}
}

// fallbackAnalysis returns the analysis to render from, never nil.
func (rs *runState) fallbackAnalysis() *analysis.Result {
	if rs.analysis != nil {
		return rs.analysis
	}
	return analysis.Stub(rs.name)
}
