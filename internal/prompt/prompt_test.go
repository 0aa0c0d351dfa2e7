package prompt

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gitscriptor/internal/analysis"
	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/keyfiles"
	"git.home.luguber.info/inful/gitscriptor/internal/style"
)

func sampleResult() *analysis.Result {
	last := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &analysis.Result{
		Name:         "Hello-World",
		Languages:    []string{"Go", "Shell"},
		Frameworks:   []string{"Go module"},
		HasTests:     true,
		FileCount:    3,
		LinesOfCode:  120,
		CommitCount:  42,
		Contributors: 3,
		LastCommit:   &last,
		Files:        []string{"README.md", "go.mod", "main.go"},
	}
}

func TestComposeIdentityAndSignals(t *testing.T) {
	out, err := NewComposer(config.PromptConfig{}).Compose(Request{
		Analysis: sampleResult(),
		Style:    style.Minimal,
		RepoURL:  "https://github.com/octocat/Hello-World",
	})
	require.NoError(t, err)

	for _, want := range []string{
		"Repository: Hello-World",
		"URL: https://github.com/octocat/Hello-World",
		"Primary Languages: Go, Shell",
		"Frameworks/Build Markers: Go module",
		"Has Tests: Yes",
		"Has CI/CD: No",
		"Lines of Code: 120",
		"Commits: 42",
		"Contributors: 3",
		"Last Commit: 2024-03-01T10:00:00Z",
		"- main.go",
		"Style: minimal",
		"Keep it concise and under 200 words.",
		`Start the document with "# Hello-World"`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Key File Contents")
	assert.NotContains(t, out, "truncated")
}

func TestComposeSentinels(t *testing.T) {
	out, err := NewComposer(config.PromptConfig{}).Compose(Request{Analysis: analysis.Stub("empty"), Style: "banana"})
	require.NoError(t, err)

	assert.Contains(t, out, "Primary Languages: Unknown")
	assert.Contains(t, out, "Frameworks/Build Markers: None detected")
	assert.Contains(t, out, "Last Commit: unknown")
	assert.Contains(t, out, "(no files detected)")
	assert.Contains(t, out, "Style: classic")
	assert.NotContains(t, out, "URL:")
}

func TestComposeBoundsFileListing(t *testing.T) {
	res := sampleResult()
	res.Files = nil
	for i := range 50 {
		res.Files = append(res.Files, fmt.Sprintf("src/file%02d.go", i))
	}

	out, err := NewComposer(config.PromptConfig{}).Compose(Request{Analysis: res, Style: style.Classic})
	require.NoError(t, err)

	assert.Contains(t, out, "- src/file19.go")
	assert.NotContains(t, out, "src/file20.go")
	assert.Contains(t, out, "...(truncated, 30 more files)")
}

func TestComposeTruncatesKeyFileSnippets(t *testing.T) {
	set := &keyfiles.Set{Entries: []keyfiles.Entry{
		{Path: "package.json", Content: strings.Repeat("é", 600), Kind: keyfiles.KindManifest},
		{Path: "go.mod", Content: "module demo", Kind: keyfiles.KindManifest},
	}}

	out, err := NewComposer(config.PromptConfig{SnippetChars: 500}).Compose(Request{
		Analysis: sampleResult(), KeyFiles: set, Style: style.Comprehensive,
	})
	require.NoError(t, err)

	assert.Contains(t, out, "=== package.json ===\n"+strings.Repeat("é", 500)+"\n...(content truncated)")
	assert.NotContains(t, out, strings.Repeat("é", 501))
	assert.Contains(t, out, "=== go.mod ===\nmodule demo\n")
	assert.Equal(t, 1, strings.Count(out, "...(content truncated)"))
	assert.Contains(t, out, "Table of contents")
}

func TestComposeIsBoundedIndependentOfRepositorySize(t *testing.T) {
	small := sampleResult()
	large := sampleResult()
	for i := range 10_000 {
		large.Files = append(large.Files, fmt.Sprintf("pkg/f%05d.go", i))
	}
	c := NewComposer(config.PromptConfig{})
	a, err := c.Compose(Request{Analysis: small, Style: style.Modern})
	require.NoError(t, err)
	b, err := c.Compose(Request{Analysis: large, Style: style.Modern})
	require.NoError(t, err)
	assert.Less(t, len(b), len(a)+2000)
}

func TestTruncateRunes(t *testing.T) {
	s, cut := truncateRunes("héllo", 2)
	assert.Equal(t, "hé", s)
	assert.True(t, cut)
	s, cut = truncateRunes("hé", 2)
	assert.Equal(t, "hé", s)
	assert.False(t, cut)
}
