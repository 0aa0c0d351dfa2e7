package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/gitscriptor/internal/analysis"
	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
	"git.home.luguber.info/inful/gitscriptor/internal/logfields"
	"git.home.luguber.info/inful/gitscriptor/internal/observability"
	"git.home.luguber.info/inful/gitscriptor/internal/style"
)

// Source says which path produced a document.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// Result is the outcome of one run. Markdown is never empty.
type Result struct {
	RunID       string           `yaml:"run_id"`
	URL         string           `yaml:"url"`
	Style       style.Style      `yaml:"style"`
	Markdown    string           `yaml:"-"`
	Source      Source           `yaml:"source"`
	FailedStage StageName        `yaml:"failed_stage,omitempty"`
	Reason      errors.Reason    `yaml:"reason,omitempty"`
	Err         error            `yaml:"-"`
	Analysis    *analysis.Result `yaml:"-"`
	Stages      []StageTiming    `yaml:"stages"`
	Duration    time.Duration    `yaml:"duration"`
	WordCount   int              `yaml:"word_count"`
	Sections    []string         `yaml:"sections"`
	GeneratedAt time.Time        `yaml:"generated_at"`
}

// Fallback reports whether the document came from the fallback renderer.
func (r *Result) Fallback() bool { return r.Source == SourceFallback }

// Sink receives every finished run.
type Sink interface {
	Record(ctx context.Context, res *Result)
}

// LogSink logs one line per finished run.
type LogSink struct{}

func (LogSink) Record(ctx context.Context, res *Result) {
	attrs := []slog.Attr{
		logfields.Source(string(res.Source)),
		logfields.Elapsed(res.Duration),
		slog.Int("words", res.WordCount),
	}
	if !res.Fallback() {
		observability.InfoContext(ctx, "Run completed", attrs...)
		return
	}
	attrs = append(attrs,
		logfields.Stage(string(res.FailedStage)),
		logfields.Reason(string(res.Reason)),
		logfields.Error(res.Err))
	observability.WarnContext(ctx, "Run completed with fallback document", attrs...)
}

// RecordSink keeps every finished run in memory.
type RecordSink struct {
	mu      sync.Mutex
	results []*Result
}

func (s *RecordSink) Record(_ context.Context, res *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, res)
}

// Results returns a copy of the recorded runs in completion order.
func (s *RecordSink) Results() []*Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Result, len(s.results))
	copy(out, s.results)
	return out
}

// Counts returns the number of recorded runs per source.
func (s *RecordSink) Counts() map[Source]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[Source]int{}
	for _, r := range s.results {
		out[r.Source]++
	}
	return out
}
