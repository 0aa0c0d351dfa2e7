// Package prompt renders a repository analysis and its key files into the
// instruction document sent to the generation backend.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"git.home.luguber.info/inful/gitscriptor/internal/analysis"
	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/keyfiles"
	"git.home.luguber.info/inful/gitscriptor/internal/style"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var promptTemplate = template.Must(template.New("readme_prompt.tmpl").
	Funcs(template.FuncMap{
		"join": strings.Join,
		"yesno": func(b bool) string {
			if b {
				return "Yes"
			}
			return "No"
		},
	}).
	Option("missingkey=error").
	ParseFS(templateFS, "templates/readme_prompt.tmpl"))

// Request is the one-shot input of Compose.
type Request struct {
	Analysis *analysis.Result
	KeyFiles *keyfiles.Set
	Style    style.Style
	RepoURL  string
}

// Composer renders prompts with bounded file listings and snippets.
type Composer struct {
	maxListedFiles int
	snippetChars   int
}

// NewComposer creates a composer from prompt configuration.
func NewComposer(cfg config.PromptConfig) *Composer {
	c := &Composer{maxListedFiles: cfg.MaxListedFiles, snippetChars: cfg.SnippetChars}
	if c.maxListedFiles <= 0 {
		c.maxListedFiles = config.DefaultMaxListedFiles
	}
	if c.snippetChars <= 0 {
		c.snippetChars = config.DefaultSnippetChars
	}
	return c
}

type keyFileView struct {
	Path      string
	Content   string
	Truncated bool
}

type view struct {
	Name         string
	URL          string
	Languages    string
	Frameworks   string
	HasTests     bool
	HasDocs      bool
	HasCI        bool
	FileCount    int
	LinesOfCode  int
	CommitCount  int
	Contributors int
	LastCommit   string
	Files        []string
	MoreFiles    int
	KeyFiles     []keyFileView
	Style        style.Style
	Requirements []string
	Sections     []string
	Tone         string
}

// Compose renders the prompt. It performs no I/O; an error means the embedded
// template is defective.
func (c *Composer) Compose(req Request) (string, error) {
	res := req.Analysis
	if res == nil {
		res = analysis.Stub("repository")
	}
	st := style.Parse(string(req.Style))
	preset := st.Preset()

	v := view{
		Name:         res.Name,
		URL:          req.RepoURL,
		Languages:    joinOr(res.Languages, "Unknown"),
		Frameworks:   joinOr(res.Frameworks, "None detected"),
		HasTests:     res.HasTests,
		HasDocs:      res.HasDocs,
		HasCI:        res.HasCI,
		FileCount:    res.FileCount,
		LinesOfCode:  res.LinesOfCode,
		CommitCount:  res.CommitCount,
		Contributors: res.Contributors,
		LastCommit:   "unknown",
		Style:        st,
		Requirements: preset.Requirements,
		Sections:     preset.Sections,
		Tone:         preset.Tone,
	}
	if res.LastCommit != nil {
		v.LastCommit = res.LastCommit.UTC().Format(time.RFC3339)
	}

	v.Files = res.Files
	if len(v.Files) > c.maxListedFiles {
		v.MoreFiles = len(v.Files) - c.maxListedFiles
		v.Files = v.Files[:c.maxListedFiles]
	}

	if req.KeyFiles != nil {
		for _, e := range req.KeyFiles.Entries {
			content, cut := truncateRunes(e.Content, c.snippetChars)
			v.KeyFiles = append(v.KeyFiles, keyFileView{Path: e.Path, Content: content, Truncated: cut})
		}
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

func joinOr(items []string, sentinel string) string {
	if len(items) == 0 {
		return sentinel
	}
	return strings.Join(items, ", ")
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) (string, bool) {
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}
