package analysis

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
	"git.home.luguber.info/inful/gitscriptor/internal/git"
	"git.home.luguber.info/inful/gitscriptor/internal/logfields"
)

// HistoryFunc reads commit history facts for a checkout.
type HistoryFunc func(root string) git.HistoryInfo

// Analyzer walks checkouts. It holds only configuration and is safe for concurrent use.
type Analyzer struct {
	maxDepth      int
	maxFiles      int
	allowedHidden map[string]bool
	history       HistoryFunc
}

// NewAnalyzer creates an analyzer from configuration. History is read with git.History.
func NewAnalyzer(cfg config.AnalysisConfig) *Analyzer {
	allowed := cfg.AllowedHiddenDirs
	if allowed == nil {
		allowed = config.DefaultAllowedHiddenDirs
	}
	a := &Analyzer{
		maxDepth:      cfg.MaxDepth,
		maxFiles:      cfg.MaxFiles,
		allowedHidden: make(map[string]bool, len(allowed)),
		history:       git.History,
	}
	if a.maxDepth <= 0 {
		a.maxDepth = config.DefaultMaxDepth
	}
	for _, d := range allowed {
		a.allowedHidden[d] = true
	}
	return a
}

// WithHistory replaces the history reader (fluent helper).
func (a *Analyzer) WithHistory(h HistoryFunc) *Analyzer {
	if h != nil {
		a.history = h
	}
	return a
}

// Analyze analyzes root, naming the result after the directory.
func (a *Analyzer) Analyze(root string) (*Result, error) {
	return a.AnalyzeNamed(root, filepath.Base(filepath.Clean(root)))
}

type dirItem struct {
	rel   string // slash-separated, "" for root
	depth int
}

// scan accumulates detector state during one walk.
type scan struct {
	languages  map[string]struct{}
	frameworks map[string]struct{}
	manifests  map[string]Manifest // keyed by marker label
	res        *Result
}

// AnalyzeNamed analyzes root and sets the result name explicitly.
func (a *Analyzer) AnalyzeNamed(root, name string) (*Result, error) {
	if _, err := os.ReadDir(root); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read checkout").
			WithContext("path", root).
			Build()
	}

	s := &scan{
		languages:  map[string]struct{}{},
		frameworks: map[string]struct{}{},
		manifests:  map[string]Manifest{},
		res:        &Result{Name: name},
	}

	stack := []dirItem{{rel: "", depth: 0}}
	for len(stack) > 0 && !s.res.Truncated {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(item.rel)))
		if err != nil {
			slog.Debug("Skipping unreadable directory", logfields.Path(item.rel), logfields.Error(err))
			continue
		}

		var subdirs []dirItem
		for _, entry := range entries {
			entryName := entry.Name()
			rel := path.Join(item.rel, entryName)
			switch {
			case entry.IsDir():
				if !a.enterable(entryName) {
					continue
				}
				a.observeDir(s, entryName)
				if item.depth < a.maxDepth {
					subdirs = append(subdirs, dirItem{rel: rel, depth: item.depth + 1})
				}
			case entry.Type().IsRegular():
				if entryName == ".git" {
					continue
				}
				a.observeFile(s, root, rel, entryName)
				if a.maxFiles > 0 && s.res.FileCount >= a.maxFiles {
					s.res.Truncated = true
				}
			}
			if s.res.Truncated {
				break
			}
		}
		// Reverse push keeps the traversal in lexical order.
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	s.finish()

	hist := a.history(root)
	s.res.CommitCount = max(hist.CommitCount, 0)
	s.res.Contributors = max(hist.Contributors, 1)
	s.res.LastCommit = hist.LastCommit

	slog.Debug("Analyzed checkout",
		logfields.Name(name),
		logfields.Count(s.res.FileCount),
		slog.Int("lines_of_code", s.res.LinesOfCode),
		slog.Bool("truncated", s.res.Truncated))
	return s.res, nil
}

func (a *Analyzer) enterable(name string) bool {
	if name == ".git" {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return a.allowedHidden[name]
	}
	return true
}

func (a *Analyzer) observeDir(s *scan, name string) {
	lower := strings.ToLower(name)
	if testDirNames[lower] {
		s.res.HasTests = true
	}
	if docDirNames[lower] {
		s.res.HasDocs = true
	}
}

func (a *Analyzer) observeFile(s *scan, root, rel, name string) {
	r := s.res
	r.FileCount++
	r.Files = append(r.Files, rel)

	lowerName := strings.ToLower(name)
	ext := strings.ToLower(path.Ext(name))

	if lang, ok := languageByExt[ext]; ok {
		s.languages[lang] = struct{}{}
	}
	if marker, ok := markerByFilename[name]; ok {
		s.frameworks[marker] = struct{}{}
		if _, seen := s.manifests[marker]; !seen {
			s.manifests[marker] = Manifest{Path: rel, Marker: marker}
		}
	}
	if containsAny(lowerName, testFileSubstrings) {
		r.HasTests = true
	}
	if containsAny(lowerName, docFileSubstrings) {
		r.HasDocs = true
	}
	if IsReadme(name) || IsLicense(name) {
		r.Documentation = append(r.Documentation, rel)
	}
	if containsAny(strings.ToLower(rel), ciPathSubstrings) {
		r.HasCI = true
	}
	if locExts[ext] {
		if n, err := countLines(filepath.Join(root, filepath.FromSlash(rel))); err == nil {
			r.LinesOfCode += n
		}
	}
}

func (s *scan) finish() {
	r := s.res
	r.Languages = sortedKeys(s.languages)
	r.Frameworks = sortedKeys(s.frameworks)
	sort.Strings(r.Files)
	sort.Strings(r.Documentation)

	r.Manifests = make([]Manifest, 0, len(s.manifests))
	for _, m := range s.manifests {
		r.Manifests = append(r.Manifests, m)
	}
	sort.Slice(r.Manifests, func(i, j int) bool { return r.Manifests[i].Path < r.Manifests[j].Path })
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// countLines counts lines the way a line-oriented reader would: a trailing
// fragment without newline counts as a line. Content is never decoded.
func countLines(p string) (int, error) {
	f, err := os.Open(p) // #nosec G304 -- path comes from the walk of our own checkout
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 32*1024)
	lines := 0
	pending := false
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			lines += bytes.Count(buf[:n], []byte{'\n'})
			pending = buf[n-1] != '\n'
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return 0, rerr
		}
	}
	if pending {
		lines++
	}
	return lines, nil
}
