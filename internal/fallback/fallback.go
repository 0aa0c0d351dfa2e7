// Package fallback renders a complete README from an analysis alone. It
// performs no I/O and makes no external calls; it is the pipeline's floor.
package fallback

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"strings"
	"text/template"
	"time"
	"unicode"

	"git.home.luguber.info/inful/gitscriptor/internal/analysis"
	"git.home.luguber.info/inful/gitscriptor/internal/style"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("fallback").
	Funcs(template.FuncMap{"anchor": anchor}).
	Option("missingkey=error").
	ParseFS(templateFS, "templates/*.md.tmpl"))

func init() {
	for _, s := range style.All() {
		if templates.Lookup(templateName(s)) == nil {
			panic(fmt.Sprintf("fallback: missing embedded template for style %s", s))
		}
	}
}

func templateName(s style.Style) string { return string(s) + ".md.tmpl" }

type view struct {
	Name          string
	URL           string
	Description   string
	Languages     string
	Frameworks    []string
	Features      []string
	Prerequisites []string
	Clone         []string
	Install       []string
	Usage         []string
	Test          []string
	HasTests      bool
	HasDocs       bool
	HasCI         bool
	FileCount     int
	LinesOfCode   int
	CommitCount   int
	Contributors  int
	LastCommit    string
	License       string
	Badge         string
	TOC           []string
}

// Render produces the fallback document for res in the given style. Unknown
// styles render as classic. A nil result renders as an unnamed stub.
// Render panics only if an embedded template is defective.
func Render(res *analysis.Result, st style.Style, repoURL string) string {
	if res == nil {
		res = analysis.Stub("repository")
	}
	st = style.Parse(string(st))
	v := buildView(res, repoURL)
	v.TOC = toc(st, v)

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, templateName(st), v); err != nil {
		panic(fmt.Sprintf("fallback: render %s: %v", st, err))
	}
	return strings.TrimRight(buf.String(), "\n") + "\n"
}

func buildView(res *analysis.Result, repoURL string) view {
	name := strings.TrimSpace(res.Name)
	if name == "" {
		name = "repository"
	}
	cmds := deriveCommands(res, name)

	v := view{
		Name:          name,
		URL:           strings.TrimSpace(repoURL),
		Languages:     strings.Join(res.Languages, ", "),
		Frameworks:    res.Frameworks,
		Prerequisites: append([]string{"Git"}, cmds.prerequisites...),
		Install:       cmds.install,
		Usage:         cmds.usage,
		Test:          cmds.test,
		HasTests:      res.HasTests,
		HasDocs:       res.HasDocs,
		HasCI:         res.HasCI,
		FileCount:     res.FileCount,
		LinesOfCode:   res.LinesOfCode,
		CommitCount:   res.CommitCount,
		Contributors:  res.Contributors,
		LastCommit:    "unknown",
	}
	if res.LastCommit != nil {
		v.LastCommit = res.LastCommit.UTC().Format(time.DateOnly)
	}

	if v.URL != "" {
		v.Clone = []string{"git clone " + v.URL, "cd " + name}
	}

	if lang := res.PrimaryLanguage(); lang != "" {
		v.Description = fmt.Sprintf("%s is a %s project.", name, lang)
		v.Badge = fmt.Sprintf("![Language](https://img.shields.io/badge/language-%s-blue.svg)", badgeEscape(lang))
	} else {
		v.Description = fmt.Sprintf("%s is a software project.", name)
	}
	if v.URL != "" {
		v.Description += fmt.Sprintf(" The source is hosted at %s.", v.URL)
	}

	v.License = "No license file was detected. Contact the maintainers before reusing this code."
	for _, d := range res.Documentation {
		if analysis.IsLicense(path.Base(d)) {
			v.License = fmt.Sprintf("See the [%s](%s) file for details.", d, d)
			break
		}
	}

	v.Features = features(res)
	return v
}

func features(res *analysis.Result) []string {
	var out []string
	if len(res.Languages) > 0 {
		out = append(out, "Written in "+strings.Join(res.Languages, ", "))
	}
	out = append(out, res.Frameworks...)
	if res.HasTests {
		out = append(out, "Automated test suite")
	}
	if res.HasCI {
		out = append(out, "Continuous integration pipeline")
	}
	if res.HasDocs {
		out = append(out, "Project documentation")
	}
	if len(out) == 0 {
		out = append(out, "Lightweight codebase with no detected build tooling")
	}
	return out
}

// toc lists the level-2 headings that follow the table of contents for styles that have one.
func toc(st style.Style, v view) []string {
	switch st {
	case style.Classic:
		out := []string{"Installation", "Usage"}
		if v.HasTests {
			out = append(out, "Running Tests")
		}
		return append(out, "Contributing", "License")
	case style.Comprehensive:
		return []string{"Features", "Tech Stack", "Installation", "Usage", "Testing", "Project Statistics", "Contributing", "License", "Support"}
	default:
		return nil
	}
}

// anchor converts a heading into a GitHub-style fragment.
func anchor(heading string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(heading) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}

func badgeEscape(s string) string {
	r := strings.NewReplacer("-", "--", "_", "__", " ", "_", "#", "%23", "+", "%2B", "/", "%2F")
	return r.Replace(s)
}
