package keyfiles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gitscriptor/internal/analysis"
	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/git"
	helpers "git.home.luguber.info/inful/gitscriptor/internal/testutil/testutils"
)

func analyze(t *testing.T, root string) *analysis.Result {
	t.Helper()
	res, err := analysis.NewAnalyzer(config.AnalysisConfig{}).
		WithHistory(func(string) git.HistoryInfo { return git.DefaultHistory() }).
		Analyze(root)
	require.NoError(t, err)
	return res
}

func TestBuildSelectsManifestsAndOneReadme(t *testing.T) {
	root := t.TempDir()
	helpers.WriteFiles(t, root, map[string]string{
		"package.json":     `{"name":"demo"}`,
		"go.mod":           "module demo\n",
		"Dockerfile":       "FROM scratch\n",
		"README.md":        "# Demo\n",
		"docs/README.md":   "# Nested\n",
		"README.ja.md":     "# デモ\n",
		"sub/package.json": `{"name":"nested"}`,
	})

	set := NewBuilder(config.ContextConfig{}).Build(root, analyze(t, root))

	var paths []string
	readmes := 0
	for _, e := range set.Entries {
		paths = append(paths, e.Path)
		if e.Kind == KindReadme {
			readmes++
		}
	}
	assert.Equal(t, []string{"package.json", "go.mod", "README.ja.md"}, paths)
	assert.Equal(t, 1, readmes)

	content, ok := set.Get("go.mod")
	assert.True(t, ok)
	assert.Equal(t, "module demo\n", content)
	_, ok = set.Get("Dockerfile")
	assert.False(t, ok, "Dockerfile is a marker but not a priority manifest")
}

func TestBuildSkipsOversizedFilesWhole(t *testing.T) {
	root := t.TempDir()
	helpers.WriteFiles(t, root, map[string]string{
		"package.json": strings.Repeat("x", 10_001),
		"go.mod":       strings.Repeat("y", 10_000),
		"README.md":    strings.Repeat("z", 20_001),
		"README.txt":   "small readme",
	})

	set := NewBuilder(config.ContextConfig{}).Build(root, analyze(t, root))

	_, ok := set.Get("package.json")
	assert.False(t, ok)
	gomod, ok := set.Get("go.mod")
	assert.True(t, ok)
	assert.Len(t, gomod, 10_000)
	_, ok = set.Get("README.md")
	assert.False(t, ok)
	readme, ok := set.Get("README.txt")
	assert.True(t, ok, "next README-like file is used when the first is oversized")
	assert.Equal(t, "small readme", readme)
}

func TestEntriesNeverExceedCap(t *testing.T) {
	root := t.TempDir()
	// 100 invalid bytes expand to 300 bytes of U+FFFD after decoding.
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte(strings.Repeat("\xff", 100)), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte("name = \"a\xffb\"\n"), 0o600))

	b := NewBuilder(config.ContextConfig{ManifestMaxBytes: 200, ReadmeMaxBytes: 200})
	set := b.Build(root, analyze(t, root))

	_, ok := set.Get("go.mod")
	assert.False(t, ok, "entry growing past the cap after decoding is dropped")

	cargo, ok := set.Get("Cargo.toml")
	require.True(t, ok)
	assert.Equal(t, "name = \"a�b\"\n", cargo)

	for _, e := range set.Entries {
		assert.LessOrEqual(t, len(e.Content), 200, e.Path)
	}
}

func TestBuildDecodesUTF16WithBOM(t *testing.T) {
	root := t.TempDir()
	// "hi" in UTF-16LE with BOM
	require.NoError(t, os.WriteFile(filepath.Join(root, "README"), []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, 0o600))

	set := NewBuilder(config.ContextConfig{}).Build(root, analyze(t, root))
	content, ok := set.Get("README")
	require.True(t, ok)
	assert.Equal(t, "hi", content)
}

func TestBuildToleratesMissingFilesAndNilResult(t *testing.T) {
	b := NewBuilder(config.ContextConfig{})
	assert.Equal(t, 0, b.Build(t.TempDir(), nil).Len())

	res := &analysis.Result{
		Manifests:     []analysis.Manifest{{Path: "package.json", Marker: "Node.js/npm project"}},
		Documentation: []string{"README.md"},
	}
	assert.Equal(t, 0, b.Build(t.TempDir(), res).Len())
}
