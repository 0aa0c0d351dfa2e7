package git

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/gitscriptor/internal/config"
	"git.home.luguber.info/inful/gitscriptor/internal/foundation/errors"
	"git.home.luguber.info/inful/gitscriptor/internal/logfields"
)

// Client fetches repositories into a caller-owned destination directory.
type Client struct {
	depth   int
	timeout time.Duration
	token   string
}

// NewClient creates a Git client from fetch configuration. A Depth of zero or
// less clones the full history; a zero Timeout imposes no deadline beyond the
// caller's context.
func NewClient(cfg config.FetchConfig) *Client {
	depth := cfg.Depth
	if depth < 0 {
		depth = 0
	}
	return &Client{depth: depth, timeout: cfg.Timeout, token: cfg.Token}
}

// Clone validates rawURL and clones it into dest, which must not exist yet.
// On any failure dest is removed so no partial checkout survives.
func (c *Client) Clone(ctx context.Context, rawURL, dest string) error {
	if err := ValidateURL(rawURL); err != nil {
		return err
	}
	rawURL = strings.TrimSpace(rawURL)

	cloneCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		cloneCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	opts := &git.CloneOptions{
		URL:          rawURL,
		Depth:        c.depth,
		SingleBranch: true,
		Tags:         git.NoTags,
		Auth:         c.auth(rawURL),
	}

	slog.Debug("Cloning repository", logfields.URL(rawURL), logfields.Path(dest), slog.Int("depth", c.depth))
	start := time.Now()
	repository, err := git.PlainCloneContext(cloneCtx, dest, false, opts)
	if err != nil {
		if rmErr := os.RemoveAll(dest); rmErr != nil {
			slog.Warn("Failed to remove partial checkout", logfields.Path(dest), logfields.Error(rmErr))
		}
		return c.classifyCloneError(cloneCtx, rawURL, err)
	}

	attrs := []any{logfields.URL(rawURL), logfields.Path(dest), logfields.Elapsed(time.Since(start))}
	if ref, herr := repository.Head(); herr == nil {
		attrs = append(attrs, slog.String("commit", ref.Hash().String()[:8]))
	}
	slog.Info("Repository cloned successfully", attrs...)
	return nil
}

func (c *Client) auth(rawURL string) transport.AuthMethod {
	if c.token == "" {
		return nil
	}
	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "https://") && !strings.HasPrefix(lower, "http://") {
		return nil
	}
	// Most Git hosting services accept "token" as the username for token auth
	return &http.BasicAuth{Username: "token", Password: c.token}
}

// classifyCloneError wraps a go-git failure into a ClassifiedError with a fetch Reason.
func (c *Client) classifyCloneError(cloneCtx context.Context, rawURL string, err error) error {
	if stdErrors.Is(cloneCtx.Err(), context.DeadlineExceeded) || stdErrors.Is(err, context.DeadlineExceeded) {
		return errors.FetchError(errors.ReasonFetchTimeout, "repository fetch timed out").
			WithCause(err).
			WithContext("url", rawURL).
			WithContext("timeout", c.timeout.String()).
			Build()
	}
	typed, kind := typeCloneError(rawURL, err)
	b := errors.FetchError(errors.ReasonFetchFailed, "failed to clone repository").
		WithCause(typed).
		WithContext("url", rawURL).
		WithContext("kind", kind).
		WithContext("detail", err.Error())
	if kind == KindAuth {
		b = b.WithCategory(errors.CategoryAuth)
	}
	return b.Build()
}
