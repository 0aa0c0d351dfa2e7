package helpers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// FileAssertions checks documents written below a base directory: READMEs,
// batch outputs and summaries. Failures are reported without stopping the test
// so one run surfaces every missing piece.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a helper rooted at baseDir.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(rel))
}

func (fa *FileAssertions) read(rel string) (string, bool) {
	fa.t.Helper()
	// #nosec G304 - test helper, paths are controlled by test code
	data, err := os.ReadFile(fa.path(rel))
	if !assert.NoError(fa.t, err, "reading %s", rel) {
		return "", false
	}
	return string(data), true
}

// AssertFileExists checks that rel is a regular file.
func (fa *FileAssertions) AssertFileExists(rel string) *FileAssertions {
	fa.t.Helper()
	assert.FileExists(fa.t, fa.path(rel))
	return fa
}

// AssertFileContains checks that rel contains every fragment.
func (fa *FileAssertions) AssertFileContains(rel string, fragments ...string) *FileAssertions {
	fa.t.Helper()
	content, ok := fa.read(rel)
	if !ok {
		return fa
	}
	for _, f := range fragments {
		assert.Contains(fa.t, content, f, "%s", rel)
	}
	return fa
}

// AssertFileHasPrefix checks how a document starts, typically its "# title" line.
func (fa *FileAssertions) AssertFileHasPrefix(rel, prefix string) *FileAssertions {
	fa.t.Helper()
	content, ok := fa.read(rel)
	if ok && !strings.HasPrefix(content, prefix) {
		fa.t.Errorf("expected %s to start with %q, got:\n%s", rel, prefix, content)
	}
	return fa
}

// AssertFileCount checks the number of regular files in dir whose name ends
// with ext. An empty ext counts every file.
func (fa *FileAssertions) AssertFileCount(dir, ext string, want int) *FileAssertions {
	fa.t.Helper()
	entries, err := os.ReadDir(fa.path(dir))
	if !assert.NoError(fa.t, err, "reading directory %s", dir) {
		return fa
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ext) {
			n++
		}
	}
	assert.Equal(fa.t, want, n, "files matching %q in %s", ext, dir)
	return fa
}
