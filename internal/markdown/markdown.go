// Package markdown inspects rendered README documents. It parses with
// goldmark and reports headings, links and a word count; it never re-renders.
package markdown

import (
	"bytes"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
}

// Heading is an ATX or setext heading in document order.
type Heading struct {
	Level int
	Text  string
}

// Summary describes the structure of one Markdown document.
type Summary struct {
	Title      string // first level-1 heading, if any
	Headings   []Heading
	Links      []Link
	WordCount  int
	CodeBlocks int
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Inspect parses body and summarizes it. Content inside fenced code blocks
// does not count toward WordCount.
func Inspect(body []byte) Summary {
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	var s Summary
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			h := Heading{Level: node.Level, Text: plainText(node, body)}
			if h.Level == 1 && s.Title == "" {
				s.Title = h.Text
			}
			s.Headings = append(s.Headings, h)
		case *gmast.FencedCodeBlock, *gmast.CodeBlock:
			s.CodeBlocks++
			return gmast.WalkSkipChildren, nil
		case *gmast.AutoLink:
			s.Links = append(s.Links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			s.Links = append(s.Links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			s.Links = append(s.Links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		case *gmast.Text:
			s.WordCount += len(strings.Fields(string(node.Segment.Value(body))))
		case *gmast.String:
			s.WordCount += len(strings.Fields(string(node.Value)))
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		s.Links = append(s.Links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}
	return s
}

// Sections returns the text of every level-2 heading in order.
func (s Summary) Sections() []string {
	var out []string
	for _, h := range s.Headings {
		if h.Level == 2 {
			out = append(out, h.Text)
		}
	}
	return out
}

// HasSection reports whether a level-2 heading with the given text exists.
func (s Summary) HasSection(name string) bool {
	for _, sec := range s.Sections() {
		if strings.EqualFold(sec, name) {
			return true
		}
	}
	return false
}

// MissingSections returns the entries of want that have no matching level-2 heading.
func (s Summary) MissingSections(want []string) []string {
	var missing []string
	for _, w := range want {
		if !s.HasSection(w) {
			missing = append(missing, w)
		}
	}
	return missing
}

func plainText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
