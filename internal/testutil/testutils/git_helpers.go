package helpers

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// SetupTestGitRepo initializes a temporary git repository for testing.
// Returns the repository, its worktree, and the absolute path to the temporary directory.
func SetupTestGitRepo(t *testing.T) (*git.Repository, *git.Worktree, string) {
	t.Helper()

	tempDir := t.TempDir()

	repo, err := git.PlainInit(tempDir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	return repo, w, tempDir
}

// Author identifies a commit author in fixture repositories.
type Author struct {
	Name  string
	Email string
}

// WriteFiles writes files (relative slash paths to content) below root.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

// CommitFiles writes files into the worktree, stages them and commits as author.
func CommitFiles(t *testing.T, w *git.Worktree, root string, files map[string]string, msg string, author Author, when time.Time) {
	t.Helper()
	WriteFiles(t, root, files)

	paths := make([]string, 0, len(files))
	for rel := range files {
		paths = append(paths, rel)
	}
	sort.Strings(paths)
	for _, rel := range paths {
		if _, err := w.Add(rel); err != nil {
			t.Fatalf("add %s: %v", rel, err)
		}
	}
	sig := &object.Signature{Name: author.Name, Email: author.Email, When: when}
	if _, err := w.Commit(msg, &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

// NewFixtureRepo creates a repository with files committed in a single commit by
// the first author, followed by one empty-change commit per additional author.
// It returns the repository path, usable as a local clone URL.
func NewFixtureRepo(t *testing.T, files map[string]string, authors ...Author) string {
	t.Helper()
	if len(authors) == 0 {
		authors = []Author{{Name: "tester", Email: "tester@example.com"}}
	}

	_, w, dir := SetupTestGitRepo(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	CommitFiles(t, w, dir, files, "initial", authors[0], base)
	for i, a := range authors[1:] {
		marker := map[string]string{filepath.ToSlash(filepath.Join("contrib", a.Name+".txt")): a.Email}
		CommitFiles(t, w, dir, marker, "contribution by "+a.Name, a, base.Add(time.Duration(i+1)*time.Hour))
	}
	return dir
}
