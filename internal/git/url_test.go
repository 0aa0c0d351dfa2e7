package git

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
)

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://github.com/octocat/Hello-World",
		"https://github.com/octocat/Hello-World.git",
		"http://git.example.com:8080/group/sub/repo",
		"ssh://git@github.com/octocat/Hello-World.git",
		"git://example.com/repo.git",
		"file:///srv/git/repo",
		"git@github.com:octocat/Hello-World.git",
		"/srv/git/repo",
	}
	for _, u := range valid {
		assert.NoError(t, ValidateURL(u), u)
	}

	invalid := []string{
		"",
		"   ",
		"not a url",
		"github.com/octocat/Hello-World",
		"ftp://example.com/repo",
		"https://",
		"https://github.com",
		"https://github.com/",
		"file://",
		"relative/path",
	}
	for _, u := range invalid {
		err := ValidateURL(u)
		if assert.Error(t, err, u) {
			assert.ErrorIs(t, err, errors.ReasonInvalidReference, u)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig), u)
		}
	}
}

func TestRepoNameFromURL(t *testing.T) {
	cases := map[string]string{
		"https://github.com/octocat/Hello-World":         "Hello-World",
		"https://github.com/octocat/Hello-World.git":     "Hello-World",
		"https://github.com/doesnotexist/doesnotexist/":  "doesnotexist",
		"git@github.com:octocat/Spoon-Knife.git":         "Spoon-Knife",
		"/srv/git/local-repo":                            "local-repo",
		"https://github.com/octocat/Hello-World?tab=foo": "Hello-World",
		"":                   "repository",
		"https://github.com": "repository",
	}
	for in, want := range cases {
		assert.Equal(t, want, RepoNameFromURL(in), in)
	}
}
