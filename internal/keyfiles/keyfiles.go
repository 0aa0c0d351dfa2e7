// Package keyfiles selects the bounded set of repository files (build
// manifests and one README) whose content is embedded into the prompt.
package keyfiles

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"git.home.luguber.info/inful/gitscriptor/internal/analysis"
	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/logfields"
)

// Kind classifies a key file.
type Kind string

const (
	KindManifest Kind = "manifest"
	KindReadme   Kind = "readme"
)

// PriorityManifests lists the manifests read for context, in order.
var PriorityManifests = []string{
	"package.json",
	"pyproject.toml",
	"requirements.txt",
	"Cargo.toml",
	"go.mod",
	"pom.xml",
	"build.gradle",
	"composer.json",
	"Gemfile",
	"Pipfile",
}

// Entry is one key file. Content never exceeds the cap for its Kind.
type Entry struct {
	Path    string
	Content string
	Kind    Kind
}

// Set is an ordered collection of key files: manifests in priority order, then the README.
type Set struct {
	Entries []Entry
}

// Len returns the number of entries; a nil Set is empty.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// Get returns the content recorded for path.
func (s *Set) Get(path string) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, e := range s.Entries {
		if e.Path == path {
			return e.Content, true
		}
	}
	return "", false
}

// Builder reads key files from a checkout.
type Builder struct {
	manifestMax int64
	readmeMax   int64
}

// NewBuilder creates a builder with the configured caps.
func NewBuilder(cfg config.ContextConfig) *Builder {
	b := &Builder{manifestMax: cfg.ManifestMaxBytes, readmeMax: cfg.ReadmeMaxBytes}
	if b.manifestMax <= 0 {
		b.manifestMax = config.DefaultManifestMaxBytes
	}
	if b.readmeMax <= 0 {
		b.readmeMax = config.DefaultReadmeMaxBytes
	}
	return b
}

// Build selects at most one file per priority manifest and at most one README.
// Files over their cap are skipped whole; unreadable files are skipped.
func (b *Builder) Build(root string, res *analysis.Result) *Set {
	set := &Set{}
	if res == nil {
		return set
	}

	for _, name := range PriorityManifests {
		rel, ok := res.ManifestPath(name)
		if !ok {
			continue
		}
		if content, ok := b.read(root, rel, b.manifestMax); ok {
			set.Entries = append(set.Entries, Entry{Path: rel, Content: content, Kind: KindManifest})
		}
	}

	for _, rel := range res.Documentation {
		if !analysis.IsReadme(filepath.Base(rel)) {
			continue
		}
		if content, ok := b.read(root, rel, b.readmeMax); ok {
			set.Entries = append(set.Entries, Entry{Path: rel, Content: content, Kind: KindReadme})
			break
		}
	}
	return set
}

func (b *Builder) read(root, rel string, limit int64) (string, bool) {
	content, err := readCapped(filepath.Join(root, filepath.FromSlash(rel)), limit)
	if err != nil {
		slog.Debug("Skipping key file", logfields.File(rel), logfields.Error(err))
		return "", false
	}
	return content, true
}

// readCapped reads a regular file of at most limit bytes and decodes it as
// UTF-8 (a UTF-16 BOM is honored). Invalid sequences become U+FFFD. The result
// is rejected when decoding pushes it over limit.
func readCapped(p string, limit int64) (string, error) {
	info, err := os.Lstat(p)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("not a regular file")
	}
	if info.Size() > limit {
		return "", fmt.Errorf("size %d exceeds cap %d", info.Size(), limit)
	}

	f, err := os.Open(p) // #nosec G304 -- path is inside our own checkout
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(raw)) > limit {
		return "", fmt.Errorf("file grew past cap %d", limit)
	}

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", err
	}
	if int64(len(decoded)) > limit {
		return "", fmt.Errorf("decoded size %d exceeds cap %d", len(decoded), limit)
	}
	return string(decoded), nil
}
