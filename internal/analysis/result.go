package analysis

import (
	"path"
	"strings"
	"time"
)

// Manifest records the first file found for a detected build marker.
type Manifest struct {
	Path   string `yaml:"path"`
	Marker string `yaml:"marker"`
}

// Result is the structural summary of one checkout. Set-valued fields are
// deduplicated and sorted so repeated analyses of the same tree are equal.
type Result struct {
	Name          string     `yaml:"name"`
	Languages     []string   `yaml:"languages"`
	Frameworks    []string   `yaml:"frameworks"`
	HasTests      bool       `yaml:"has_tests"`
	HasDocs       bool       `yaml:"has_docs"`
	HasCI         bool       `yaml:"has_ci"`
	FileCount     int        `yaml:"file_count"`
	LinesOfCode   int        `yaml:"lines_of_code"`
	CommitCount   int        `yaml:"commit_count"`
	Contributors  int        `yaml:"contributors"`
	LastCommit    *time.Time `yaml:"last_commit"`
	Truncated     bool       `yaml:"truncated,omitempty"` // walk stopped at the file ceiling
	Files         []string   `yaml:"files,omitempty"`
	Manifests     []Manifest `yaml:"manifests,omitempty"`
	Documentation []string   `yaml:"documentation,omitempty"`
}

// Stub returns the all-default result for a repository that was never analyzed.
func Stub(name string) *Result {
	return &Result{Name: name, Contributors: 1}
}

// HasMarker reports whether a manifest with the given file name was detected.
func (r *Result) HasMarker(filename string) bool {
	_, ok := r.ManifestPath(filename)
	return ok
}

// ManifestPath returns the recorded path of the first manifest named filename.
func (r *Result) ManifestPath(filename string) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, m := range r.Manifests {
		if path.Base(m.Path) == filename {
			return m.Path, true
		}
	}
	return "", false
}

// Readme returns the first README-like documentation path.
func (r *Result) Readme() (string, bool) {
	if r == nil {
		return "", false
	}
	for _, d := range r.Documentation {
		if IsReadme(path.Base(d)) {
			return d, true
		}
	}
	return "", false
}

// PrimaryLanguage returns the first language or "" when none was detected.
func (r *Result) PrimaryLanguage() string {
	if r == nil || len(r.Languages) == 0 {
		return ""
	}
	return r.Languages[0]
}

// IsReadme reports whether a file name is README-like.
func IsReadme(name string) bool { return hasAnyPrefix(strings.ToLower(name), readmePrefixes) }

// IsLicense reports whether a file name is LICENSE-like.
func IsLicense(name string) bool { return hasAnyPrefix(strings.ToLower(name), licensePrefixes) }

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
