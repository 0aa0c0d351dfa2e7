package git

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
	helpers "git.home.luguber.info/inful/gitscriptor/internal/testutil/testutils"
)

func TestCloneLocalRepository(t *testing.T) {
	src := helpers.NewFixtureRepo(t, map[string]string{
		"README.md": "# Demo\n",
		"main.go":   "package main\n",
	})
	dest := filepath.Join(t.TempDir(), "checkout")

	// Local transports do not need a shallow clone.
	client := NewClient(config.FetchConfig{Timeout: 30 * time.Second})
	require.NoError(t, client.Clone(context.Background(), src, dest))

	_, err := os.Stat(filepath.Join(dest, "main.go"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dest, ".git"))
	assert.NoError(t, err)
}

func TestCloneInvalidReferenceTouchesNothing(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "checkout")
	client := NewClient(config.FetchConfig{Timeout: time.Second, Depth: 1})

	err := client.Clone(context.Background(), "not a url", dest)
	require.Error(t, err)
	assert.Equal(t, errors.ReasonInvalidReference, errors.ReasonOf(err))

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCloneMissingRepositoryRemovesDest(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "checkout")
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	client := NewClient(config.FetchConfig{Timeout: 10 * time.Second})

	err := client.Clone(context.Background(), missing, dest)
	require.Error(t, err)
	assert.Equal(t, errors.ReasonFetchFailed, errors.ReasonOf(err))

	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	detail, _ := classified.Context().GetString("detail")
	assert.NotEmpty(t, detail)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "partial checkout must be removed")
}

func TestCloneTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	dest := filepath.Join(t.TempDir(), "checkout")
	client := NewClient(config.FetchConfig{Timeout: 200 * time.Millisecond, Depth: 1})

	start := time.Now()
	err := client.Clone(context.Background(), srv.URL+"/octocat/slow.git", dest)
	require.Error(t, err)
	assert.Equal(t, errors.ReasonFetchTimeout, errors.ReasonOf(err))
	assert.True(t, errors.HasCategory(err, errors.CategoryNetwork))
	assert.Less(t, time.Since(start), 5*time.Second)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTypeCloneError(t *testing.T) {
	cases := map[string]string{
		"authentication required":    KindAuth,
		"repository not found":       KindNotFound,
		"unsupported scheme \"ftp\"": KindUnsupportedProtocol,
		"429 Too Many Requests":      KindRateLimit,
		"connection reset by peer":   KindOther,
	}
	for msg, want := range cases {
		typed, got := typeCloneError("https://example.com/r.git", errString(msg))
		assert.Equal(t, want, got, msg)
		assert.ErrorContains(t, typed, msg)
	}
}

type errString string

func (e errString) Error() string { return string(e) }

func TestAuthOnlyForHTTP(t *testing.T) {
	c := NewClient(config.FetchConfig{Token: "abc"})
	assert.NotNil(t, c.auth("https://github.com/o/r"))
	assert.Nil(t, c.auth("git@github.com:o/r.git"))
	assert.Nil(t, NewClient(config.FetchConfig{}).auth("https://github.com/o/r"))
}
