// Package style defines the README style presets.
package style

import "git.home.luguber.info/inful/gitscriptor/internal/foundation/normalization"

// Style names a README preset. Any unrecognized input parses to Classic.
type Style string

const (
	Classic       Style = "classic"
	Minimal       Style = "minimal"
	Comprehensive Style = "comprehensive"
	Modern        Style = "modern"
)

// All returns the recognized styles in a stable order.
func All() []Style { return []Style{Classic, Minimal, Comprehensive, Modern} }

var names = normalization.New("style", map[string]Style{
	"classic":       Classic,
	"minimal":       Minimal,
	"comprehensive": Comprehensive,
	"modern":        Modern,
}, Classic)

// Parse maps free text to a Style. It never fails.
func Parse(s string) Style { return names.Normalize(s) }

// Recognized reports whether s names one of the four styles exactly (case-insensitive).
func Recognized(s string) bool {
	_, ok := names.Lookup(s)
	return ok
}

func (s Style) String() string { return string(s) }

// Preset describes what a style asks of a README.
type Preset struct {
	// Sections are the level-2 headings every document of this style carries, in order.
	Sections []string
	// Requirements are the instructions given to the generation backend.
	Requirements []string
	Tone         string
}

var presets = map[Style]Preset{
	Minimal: {
		Sections: []string{"Installation", "Usage", "License"},
		Requirements: []string{
			"Project title and brief description",
			"Installation instructions",
			"Basic usage example",
			"License information",
		},
		Tone: "Keep it concise and under 200 words. Do not add a Contributing section.",
	},
	Classic: {
		Sections: []string{"Table of Contents", "Installation", "Usage", "Contributing", "License"},
		Requirements: []string{
			"Project title and description",
			"Table of contents",
			"Installation instructions",
			"Usage examples",
			"Contributing guidelines",
			"License information",
		},
		Tone: "Balance detail with readability.",
	},
	Comprehensive: {
		Sections: []string{"Overview", "Table of Contents", "Features", "Installation", "Usage", "Testing", "Contributing", "License", "Support"},
		Requirements: []string{
			"Project title with badges",
			"Detailed description and features",
			"Table of contents",
			"Installation prerequisites and steps",
			"Usage examples with code snippets",
			"API documentation if applicable",
			"Contributing guidelines",
			"Testing information",
			"Deployment instructions",
			"License and support information",
			"Screenshots or diagrams if appropriate",
		},
		Tone: "Make it detailed and professional.",
	},
	Modern: {
		Sections: []string{"✨ Features", "🚀 Installation", "📖 Usage", "🤝 Contributing", "📄 License"},
		Requirements: []string{
			"Project title with a one-line tagline and shields.io badges",
			"Emoji-prefixed section headings",
			"Feature highlights as a short bullet list",
			"Quick start installation in a single code block",
			"Usage examples with code snippets",
			"Contributing guidelines",
			"License information",
		},
		Tone: "Use a friendly, contemporary voice with visual structure.",
	},
}

// Preset returns the preset for s; unrecognized values get the classic preset.
func (s Style) Preset() Preset { return presets[Parse(string(s))] }

// RequiredSections returns the level-2 headings this style always carries.
func (s Style) RequiredSections() []string {
	return append([]string(nil), s.Preset().Sections...)
}
