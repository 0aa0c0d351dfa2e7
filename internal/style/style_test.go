package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := map[string]Style{
		"classic":        Classic,
		"minimal":        Minimal,
		" Comprehensive": Comprehensive,
		"MODERN":         Modern,
		"banana":         Classic,
		"":               Classic,
	}
	for in, want := range cases {
		assert.Equal(t, want, Parse(in), in)
	}
	assert.False(t, Recognized("banana"))
	assert.True(t, Recognized("Modern"))
}

func TestRequiredSections(t *testing.T) {
	assert.NotContains(t, Minimal.RequiredSections(), "Contributing")
	assert.Contains(t, Minimal.RequiredSections(), "Installation")
	assert.Contains(t, Comprehensive.RequiredSections(), "Table of Contents")
	assert.Contains(t, Classic.RequiredSections(), "Contributing")
	assert.Equal(t, Classic.RequiredSections(), Style("banana").RequiredSections())

	// Callers get a copy.
	s := Classic.RequiredSections()
	s[0] = "mutated"
	assert.Equal(t, "Table of Contents", Classic.RequiredSections()[0])
}

func TestEveryStyleHasPreset(t *testing.T) {
	for _, s := range All() {
		p := s.Preset()
		assert.NotEmpty(t, p.Sections, s)
		assert.NotEmpty(t, p.Requirements, s)
		assert.NotEmpty(t, p.Tone, s)
	}
}
