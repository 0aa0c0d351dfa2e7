package git

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
)

var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ssh":   true,
	"git":   true,
	"file":  true,
}

// scp-like syntax: user@host:owner/repo(.git)
var scpLikeURL = regexp.MustCompile(`^[A-Za-z0-9._~-]+@[A-Za-z0-9.-]+:[^/\s][^\s]*$`)

// ValidateURL checks that raw is a clonable repository reference without touching the network.
func ValidateURL(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return invalidReference(raw, "repository URL is empty")
	}
	if strings.ContainsAny(trimmed, " \t\r\n") {
		return invalidReference(raw, "repository URL contains whitespace")
	}
	if !strings.Contains(trimmed, "://") {
		if scpLikeURL.MatchString(trimmed) || filepath.IsAbs(trimmed) {
			return nil
		}
		return invalidReference(raw, "repository URL has no scheme")
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return errors.FetchError(errors.ReasonInvalidReference, "repository URL is not parsable").
			WithCause(err).
			WithContext("url", raw).
			Build()
	}
	scheme := strings.ToLower(u.Scheme)
	if !allowedSchemes[scheme] {
		return invalidReference(raw, fmt.Sprintf("unsupported URL scheme %q", u.Scheme))
	}
	if scheme == "file" {
		if strings.Trim(u.Path, "/") == "" {
			return invalidReference(raw, "file URL has no path")
		}
		return nil
	}
	if u.Host == "" {
		return invalidReference(raw, "repository URL has no host")
	}
	if strings.Trim(u.Path, "/") == "" {
		return invalidReference(raw, "repository URL has no repository path")
	}
	return nil
}

func invalidReference(raw, msg string) error {
	return errors.FetchError(errors.ReasonInvalidReference, msg).
		WithContext("url", raw).
		Build()
}

// RepoNameFromURL derives a display name from the last path segment of a
// repository URL, without any .git suffix. It never fails; unusable input
// yields "repository".
func RepoNameFromURL(raw string) string {
	s := strings.TrimSpace(raw)
	if u, err := url.Parse(s); err == nil && u.Scheme != "" {
		s = u.Path
	}
	s = strings.TrimRight(s, "/\\")
	s = strings.TrimSuffix(s, ".git")
	if i := strings.LastIndexAny(s, "/:\\"); i >= 0 {
		s = s[i+1:]
	}
	if s == "" || s == "." || s == ".." {
		return "repository"
	}
	return s
}
