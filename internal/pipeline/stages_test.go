package pipeline

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gitscriptor/internal/metrics"
)

type countingRecorder struct {
	metrics.NoopRecorder
	results map[string]metrics.ResultLabel
}

func (c *countingRecorder) IncStageResult(stage string, r metrics.ResultLabel) { c.results[stage] = r }

func TestRunStagesStopsAtFirstFailure(t *testing.T) {
	rec := &countingRecorder{results: map[string]metrics.ResultLabel{}}
	rs := &runState{recorder: rec}
	boom := stdErrors.New("boom")
	var ran []StageName
	stage := func(name StageName, err error) StageDef {
		return StageDef{Name: name, Fn: func(context.Context, *runState) error {
			ran = append(ran, name)
			return err
		}}
	}

	se := runStages(context.Background(), rs, []StageDef{
		stage(StageFetching, nil),
		stage(StageAnalyzing, boom),
		stage(StageComposing, nil),
	})

	require.NotNil(t, se)
	require.Equal(t, StageAnalyzing, se.Stage)
	require.Equal(t, StageErrorFailed, se.Kind)
	require.ErrorIs(t, se, boom)
	require.Equal(t, []StageName{StageFetching, StageAnalyzing}, ran)
	require.Equal(t, map[string]metrics.ResultLabel{
		"fetching":  metrics.ResultSuccess,
		"analyzing": metrics.ResultFailed,
		"composing": metrics.ResultSkipped,
	}, rec.results)
	require.Len(t, rs.timings, 3)
}

func TestRunStagesSuccess(t *testing.T) {
	rs := &runState{recorder: metrics.NoopRecorder{}}
	se := runStages(context.Background(), rs, []StageDef{
		{Name: StageFetching, Fn: func(context.Context, *runState) error { return nil }},
	})
	require.Nil(t, se)
	require.Equal(t, metrics.ResultSuccess, rs.timings[0].Result)
}
