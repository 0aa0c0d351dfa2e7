package pipeline

import (
	"context"
	stdErrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
	"git.home.luguber.info/inful/gitscriptor/internal/generation"
	"git.home.luguber.info/inful/gitscriptor/internal/metrics"
	"git.home.luguber.info/inful/gitscriptor/internal/style"
	helpers "git.home.luguber.info/inful/gitscriptor/internal/testutil/testutils"
)

type fakeBackend struct {
	text    string
	err     error
	panics  bool
	calls   atomic.Int32
	prompts chan string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Generate(_ context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	if f.prompts != nil {
		f.prompts <- prompt
	}
	if f.panics {
		panic("backend exploded")
	}
	return f.text, f.err
}

func (f *fakeBackend) factory() BackendFactory {
	return func(config.GenerationConfig, string) generation.Backend { return f }
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv(config.EnvGeminiAPIKey, "")
	t.Setenv(config.EnvOpenAIAPIKey, "")
	cfg := config.Default()
	cfg.Fetch.Depth = 0
	cfg.Fetch.WorkspaceDir = t.TempDir()
	cfg.Generation.Timeout = 5 * time.Second
	return cfg
}

func fixture(t *testing.T) string {
	return helpers.NewFixtureRepo(t, map[string]string{
		"package.json": `{"name":"widget","scripts":{"test":"jest"}}`,
		"index.js":     "console.log('hi')\n",
		"README.md":    "# widget\n",
		"test/a.js":    "test('a', () => {})\n",
	})
}

func requireWorkspaceEmpty(t *testing.T, cfg *config.Config) {
	t.Helper()
	entries, err := os.ReadDir(cfg.Fetch.WorkspaceDir)
	require.NoError(t, err)
	require.Empty(t, entries, "workspace directories must be removed after the run")
}

func TestRunMissingRepositoryFallsBack(t *testing.T) {
	cfg := testConfig(t)
	url := filepath.Join(t.TempDir(), "doesnotexist")

	res := NewGenerator(cfg).Run(context.Background(), Request{URL: url, Style: "minimal"})

	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, StageFetching, res.FailedStage)
	assert.Equal(t, errors.ReasonFetchFailed, res.Reason)
	assert.True(t, strings.HasPrefix(res.Markdown, "# doesnotexist\n"), res.Markdown)
	assert.Contains(t, res.Sections, "Installation")
	assert.Equal(t, "doesnotexist", res.Analysis.Name)
	assert.Equal(t, 1, res.Analysis.Contributors)
	requireWorkspaceEmpty(t, cfg)
}

func TestRunInvalidReferenceNeverTouchesWorkspace(t *testing.T) {
	cfg := testConfig(t)
	res := NewGenerator(cfg).Run(context.Background(), Request{URL: "ftp://example.com/acme/tool.git"})

	assert.Equal(t, errors.ReasonInvalidReference, res.Reason)
	assert.Equal(t, style.Classic, res.Style)
	assert.True(t, strings.HasPrefix(res.Markdown, "# tool\n"))
	requireWorkspaceEmpty(t, cfg)
}

func TestRunWithoutCredentialRendersFallbackFromAnalysis(t *testing.T) {
	cfg := testConfig(t)
	repo := fixture(t)
	sink := &RecordSink{}

	res := NewGenerator(cfg).WithSink(sink).Run(context.Background(), Request{URL: repo, Style: "comprehensive"})

	require.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, StageGenerating, res.FailedStage)
	assert.Equal(t, errors.ReasonMissingCredential, res.Reason)
	assert.Equal(t, filepath.Base(repo), res.Analysis.Name)
	assert.True(t, res.Analysis.HasTests)
	assert.Contains(t, res.Markdown, "npm install")
	assert.Contains(t, res.Markdown, "## Table of Contents")
	assert.Equal(t, map[Source]int{SourceFallback: 1}, sink.Counts())
	requireWorkspaceEmpty(t, cfg)

	var names []StageName
	for _, st := range res.Stages {
		names = append(names, st.Name)
	}
	assert.Equal(t, []StageName{StageFetching, StageAnalyzing, StageBuildingContext, StageComposing, StageGenerating, StageFallbackRendering}, names)
	assert.Equal(t, metrics.ResultFailed, res.Stages[4].Result)
}

func TestRunGeneratedPath(t *testing.T) {
	cfg := testConfig(t)
	repo := fixture(t)
	backend := &fakeBackend{text: "# widget\n\nA widget.\n\n## Installation\n\nnpm install\n", prompts: make(chan string, 1)}

	res := NewGenerator(cfg).WithBackendFactory(backend.factory()).
		Run(context.Background(), Request{URL: repo, Style: "modern", Credential: "k"})

	require.Equal(t, SourceGenerated, res.Source, "err: %v", res.Err)
	assert.Equal(t, backend.text, res.Markdown)
	assert.Empty(t, res.FailedStage)
	assert.Equal(t, errors.ReasonNone, res.Reason)
	assert.Equal(t, []string{"Installation"}, res.Sections)
	assert.Positive(t, res.WordCount)
	assert.EqualValues(t, 1, backend.calls.Load())

	p := <-backend.prompts
	assert.Contains(t, p, repo)
	assert.Contains(t, p, "package.json")
	requireWorkspaceEmpty(t, cfg)
}

func TestRunBackendErrorFallsBack(t *testing.T) {
	cfg := testConfig(t)
	failure := errors.GenerationError(errors.ReasonBackendError, "status 500").WithContext("status", 500).Build()
	backend := &fakeBackend{err: failure}

	res := NewGenerator(cfg).WithBackendFactory(backend.factory()).
		Run(context.Background(), Request{URL: fixture(t), Style: "classic"})

	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, errors.ReasonBackendError, res.Reason)
	assert.True(t, stdErrors.Is(res.Err, errors.ReasonBackendError))
}

func TestRunBlankGenerationFallsBack(t *testing.T) {
	cfg := testConfig(t)
	backend := &fakeBackend{text: "   \n"}

	res := NewGenerator(cfg).WithBackendFactory(backend.factory()).
		Run(context.Background(), Request{URL: fixture(t)})

	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, errors.ReasonEmptyGeneration, res.Reason)
}

func TestRunRecoversStagePanic(t *testing.T) {
	cfg := testConfig(t)
	backend := &fakeBackend{panics: true}

	res := NewGenerator(cfg).WithBackendFactory(backend.factory()).
		Run(context.Background(), Request{URL: fixture(t), Style: "minimal"})

	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, StageGenerating, res.FailedStage)
	assert.Equal(t, errors.ReasonStagePanic, res.Reason)
	assert.True(t, errors.HasCategory(res.Err, errors.CategoryInternal))
	assert.NotEmpty(t, res.Markdown)
	requireWorkspaceEmpty(t, cfg)
}

func TestRunCanceledContext(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewGenerator(cfg).Run(ctx, Request{URL: "https://example.com/acme/widget.git"})

	require.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, StageFetching, res.FailedStage)
	var se *StageError
	require.True(t, stdErrors.As(res.Err, &se))
	assert.Equal(t, StageErrorCanceled, se.Kind)
	assert.True(t, strings.HasPrefix(res.Markdown, "# widget\n"))
	assert.Equal(t, metrics.ResultSkipped, res.Stages[1].Result)
}

func TestRunBatchPreservesOrder(t *testing.T) {
	cfg := testConfig(t)
	repo := fixture(t)
	backend := &fakeBackend{text: "# generated\n"}
	gen := NewGenerator(cfg).WithBackendFactory(backend.factory())

	reqs := []Request{
		{URL: repo, Style: "minimal"},
		{URL: filepath.Join(t.TempDir(), "missing-one")},
		{URL: repo, Style: "modern"},
		{URL: "ftp://bad/ref-two"},
	}
	results := gen.RunBatch(context.Background(), reqs, 3)

	require.Len(t, results, len(reqs))
	assert.Equal(t, SourceGenerated, results[0].Source)
	assert.Equal(t, style.Minimal, results[0].Style)
	assert.True(t, strings.HasPrefix(results[1].Markdown, "# missing-one\n"))
	assert.Equal(t, SourceGenerated, results[2].Source)
	assert.Equal(t, style.Modern, results[2].Style)
	assert.True(t, strings.HasPrefix(results[3].Markdown, "# ref-two\n"))

	ids := map[string]bool{}
	for _, r := range results {
		ids[r.RunID] = true
	}
	assert.Len(t, ids, len(reqs))
	requireWorkspaceEmpty(t, cfg)
}

func TestRunBatchEmpty(t *testing.T) {
	assert.Empty(t, NewGenerator(testConfig(t)).RunBatch(context.Background(), nil, 4))
}

func TestAnalyze(t *testing.T) {
	cfg := testConfig(t)
	repo := fixture(t)

	res, err := NewGenerator(cfg).Analyze(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(repo), res.Name)
	assert.Contains(t, res.Languages, "JavaScript")
	assert.Equal(t, 1, res.CommitCount)
	requireWorkspaceEmpty(t, cfg)

	_, err = NewGenerator(cfg).Analyze(context.Background(), "ftp://bad/ref")
	require.Error(t, err)
	assert.True(t, stdErrors.Is(err, errors.ReasonInvalidReference))
}

type flakyBackend struct {
	failures int32
	calls    atomic.Int32
}

func (f *flakyBackend) Name() string { return "flaky" }

func (f *flakyBackend) Generate(context.Context, string) (string, error) {
	if f.calls.Add(1) <= f.failures {
		return "", errors.GenerationError(errors.ReasonBackendError, "unavailable").WithContext("status", 503).Build()
	}
	return "# recovered\n", nil
}

func TestRunRetriesTransientGenerationFailures(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generation.Retry = config.RetryConfig{MaxRetries: 2, Backoff: config.RetryBackoffFixed, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
	backend := &flakyBackend{failures: 2}
	factory := func(config.GenerationConfig, string) generation.Backend { return backend }

	res := NewGenerator(cfg).WithBackendFactory(factory).Run(context.Background(), Request{URL: fixture(t)})

	require.Equal(t, SourceGenerated, res.Source, "err: %v", res.Err)
	assert.Equal(t, "# recovered\n", res.Markdown)
	assert.EqualValues(t, 3, backend.calls.Load())
}

func TestRunDoesNotRetryPermanentFailures(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generation.Retry = config.RetryConfig{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
	backend := &fakeBackend{err: errors.GenerationError(errors.ReasonBackendError, "bad request").WithContext("status", 400).Build()}

	res := NewGenerator(cfg).WithBackendFactory(backend.factory()).Run(context.Background(), Request{URL: fixture(t)})

	assert.Equal(t, SourceFallback, res.Source)
	assert.EqualValues(t, 1, backend.calls.Load())
}
