package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/gitscriptor/internal/analysis"
	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/fallback"
	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
	"git.home.luguber.info/inful/gitscriptor/internal/generation"
	"git.home.luguber.info/inful/gitscriptor/internal/git"
	"git.home.luguber.info/inful/gitscriptor/internal/keyfiles"
	"git.home.luguber.info/inful/gitscriptor/internal/logfields"
	"git.home.luguber.info/inful/gitscriptor/internal/markdown"
	"git.home.luguber.info/inful/gitscriptor/internal/metrics"
	"git.home.luguber.info/inful/gitscriptor/internal/observability"
	"git.home.luguber.info/inful/gitscriptor/internal/prompt"
	"git.home.luguber.info/inful/gitscriptor/internal/retry"
	"git.home.luguber.info/inful/gitscriptor/internal/style"
	"git.home.luguber.info/inful/gitscriptor/internal/workspace"
)

// checkoutDir is the workspace subdirectory the repository is cloned into.
const checkoutDir = "repo"

// Fetcher clones a repository reference into dest.
type Fetcher interface {
	Clone(ctx context.Context, rawURL, dest string) error
}

// BackendFactory builds the generation backend for one run.
type BackendFactory func(cfg config.GenerationConfig, credential string) generation.Backend

// Request is the input of one run.
type Request struct {
	URL        string `yaml:"url"`
	Style      string `yaml:"style,omitempty"`
	Credential string `yaml:"-"` // overrides the configured credential when set
}

// Generator runs the README pipeline. It holds only configuration and
// collaborators and is safe for concurrent use.
type Generator struct {
	cfg        *config.Config
	fetcher    Fetcher
	analyzer   *analysis.Analyzer
	keyFiles   *keyfiles.Builder
	composer   *prompt.Composer
	newBackend BackendFactory
	recorder   metrics.Recorder
	sinks      []Sink
}

// NewGenerator wires the default collaborators for cfg. A nil cfg uses config.Default().
func NewGenerator(cfg *config.Config) *Generator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Generator{
		cfg:        cfg,
		fetcher:    git.NewClient(cfg.Fetch),
		analyzer:   analysis.NewAnalyzer(cfg.Analysis),
		keyFiles:   keyfiles.NewBuilder(cfg.Context),
		composer:   prompt.NewComposer(cfg.Prompt),
		newBackend: generation.New,
		recorder:   metrics.NoopRecorder{},
	}
}

// WithRecorder sets the metrics recorder (fluent helper).
func (g *Generator) WithRecorder(r metrics.Recorder) *Generator {
	if r != nil {
		g.recorder = r
	}
	return g
}

// WithFetcher replaces the repository fetcher.
func (g *Generator) WithFetcher(f Fetcher) *Generator {
	if f != nil {
		g.fetcher = f
	}
	return g
}

// WithAnalyzer replaces the structural analyzer.
func (g *Generator) WithAnalyzer(a *analysis.Analyzer) *Generator {
	if a != nil {
		g.analyzer = a
	}
	return g
}

// WithBackendFactory replaces how generation backends are built.
func (g *Generator) WithBackendFactory(f BackendFactory) *Generator {
	if f != nil {
		g.newBackend = f
	}
	return g
}

// WithSink adds a sink notified after every finished run.
func (g *Generator) WithSink(s Sink) *Generator {
	if s != nil {
		g.sinks = append(g.sinks, s)
	}
	return g
}

func (g *Generator) stages() []StageDef {
	return []StageDef{
		{StageFetching, stageFetch},
		{StageAnalyzing, stageAnalyze},
		{StageBuildingContext, stageBuildContext},
		{StageComposing, stageCompose},
		{StageGenerating, stageGenerate},
	}
}

// Run executes one generation run. It never fails: every outcome carries a
// non-empty Markdown document, either generated or rendered by fallback.
func (g *Generator) Run(ctx context.Context, req Request) *Result {
	start := time.Now()
	runID := uuid.NewString()
	url := strings.TrimSpace(req.URL)
	st := style.Parse(req.Style)

	ctx = observability.WithRunID(ctx, runID)
	ctx = observability.WithURL(ctx, url)
	ctx = observability.WithStyle(ctx, string(st))
	if req.Style != "" && !style.Recognized(req.Style) {
		observability.WarnContext(ctx, "Unknown style, using classic", slog.String("requested", req.Style))
	}

	rs := g.newRunState(url, st, req.Credential)
	defer rs.cleanup(ctx)

	observability.InfoContext(ctx, "Run started")
	res := &Result{RunID: runID, URL: url, Style: st, GeneratedAt: start.UTC()}

	if se := runStages(ctx, rs, g.stages()); se != nil {
		res.Source = SourceFallback
		res.FailedStage = se.Stage
		res.Err = se
		res.Reason = errors.ReasonOf(se.Err)
		rs.markdown = g.renderFallback(ctx, rs)
	} else {
		res.Source = SourceGenerated
	}

	res.Markdown = rs.markdown
	res.Analysis = rs.fallbackAnalysis()
	res.Stages = rs.timings
	summary := markdown.Inspect([]byte(res.Markdown))
	res.WordCount = summary.WordCount
	res.Sections = summary.Sections()
	res.Duration = time.Since(start)

	g.recorder.ObserveRunDuration(res.Duration)
	g.recorder.IncRunOutcome(string(res.Source), string(res.Reason))
	for _, s := range g.sinks {
		s.Record(ctx, res)
	}
	return res
}

// Analyze fetches and analyzes url without composing or generating anything.
// Unlike Run it reports the failure of either stage to the caller.
func (g *Generator) Analyze(ctx context.Context, url string) (*analysis.Result, error) {
	url = strings.TrimSpace(url)
	ctx = observability.WithRunID(ctx, uuid.NewString())
	ctx = observability.WithURL(ctx, url)

	rs := g.newRunState(url, style.Classic, "")
	defer rs.cleanup(ctx)

	if se := runStages(ctx, rs, g.stages()[:2]); se != nil {
		return nil, se.Err
	}
	return rs.analysis, nil
}

func (g *Generator) newRunState(url string, st style.Style, credential string) *runState {
	if strings.TrimSpace(credential) == "" {
		credential = g.cfg.Credential()
	}
	return &runState{
		gen:        g,
		recorder:   g.recorder,
		url:        url,
		name:       git.RepoNameFromURL(url),
		style:      st,
		credential: credential,
		ws:         workspace.NewManager(g.cfg.Fetch.WorkspaceDir),
	}
}

func (g *Generator) renderFallback(ctx context.Context, rs *runState) string {
	ctx = observability.WithStage(ctx, string(StageFallbackRendering))
	t0 := time.Now()
	out := fallback.Render(rs.fallbackAnalysis(), rs.style, rs.url)
	dur := time.Since(t0)
	g.recorder.ObserveStageDuration(string(StageFallbackRendering), dur)
	rs.record(StageFallbackRendering, dur, metrics.ResultSuccess)
	observability.DebugContext(ctx, "Fallback rendered", logfields.Elapsed(dur))
	return out
}

func stageFetch(ctx context.Context, rs *runState) error {
	if err := git.ValidateURL(rs.url); err != nil {
		return err
	}
	if err := rs.ws.Create(); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create workspace").Build()
	}
	dest, err := rs.ws.SubdirPath(checkoutDir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "resolve checkout path").Build()
	}

	t0 := time.Now()
	err = rs.gen.fetcher.Clone(ctx, rs.url, dest)
	rs.recorder.ObserveFetchDuration(time.Since(t0), err == nil)
	if err != nil {
		return err
	}
	rs.checkout = dest
	return nil
}

func stageAnalyze(ctx context.Context, rs *runState) error {
	res, err := rs.gen.analyzer.AnalyzeNamed(rs.checkout, rs.name)
	if err != nil {
		return err
	}
	rs.analysis = res
	observability.DebugContext(ctx, "Repository analyzed",
		logfields.Count(res.FileCount),
		slog.String("languages", strings.Join(res.Languages, ",")))
	return nil
}

func stageBuildContext(ctx context.Context, rs *runState) error {
	rs.keyFiles = rs.gen.keyFiles.Build(rs.checkout, rs.analysis)
	observability.DebugContext(ctx, "Key files collected", logfields.Count(rs.keyFiles.Len()))
	return nil
}

func stageCompose(_ context.Context, rs *runState) error {
	p, err := rs.gen.composer.Compose(prompt.Request{
		Analysis: rs.analysis,
		KeyFiles: rs.keyFiles,
		Style:    rs.style,
		RepoURL:  rs.url,
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "compose prompt").Build()
	}
	rs.prompt = p
	return nil
}

func stageGenerate(ctx context.Context, rs *runState) error {
	cfg := rs.gen.cfg.Generation
	backend := rs.gen.newBackend(cfg, rs.credential)
	policy := retry.NewPolicy(cfg.Retry)

	for attempt := 0; ; attempt++ {
		text, err := generateOnce(ctx, rs, backend, cfg)
		if err == nil {
			rs.markdown = text
			observability.DebugContext(ctx, "Document generated", logfields.Provider(backend.Name()), slog.Int("attempt", attempt+1))
			return nil
		}
		if attempt >= policy.MaxRetries || !retry.Transient(err) {
			return err
		}
		delay := policy.Delay(attempt + 1)
		attrs := []slog.Attr{
			logfields.Provider(backend.Name()),
			logfields.Reason(string(errors.ReasonOf(err))),
			slog.Duration("delay", delay),
			logfields.Error(err),
		}
		if ce, ok := errors.AsClassified(err); ok {
			if status, ok := ce.Context().GetInt("status"); ok {
				attrs = append(attrs, logfields.Status(status))
			}
		}
		observability.WarnContext(ctx, "Generation failed, retrying", attrs...)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}
	}
}

// generateOnce makes one bounded backend call and rejects blank output.
func generateOnce(ctx context.Context, rs *runState, backend generation.Backend, cfg config.GenerationConfig) (string, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	t0 := time.Now()
	text, err := backend.Generate(ctx, rs.prompt)
	rs.recorder.ObserveGenerationDuration(string(cfg.Provider), time.Since(t0), err == nil)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.GenerationError(errors.ReasonEmptyGeneration, fmt.Sprintf("backend %s returned no text", backend.Name())).Build()
	}
	return text, nil
}
